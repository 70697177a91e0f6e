// Command dungeonsim loads the content catalog and the save store, then
// auto-plays dungeon stage or special boss battles for the active character.
//
// Usage:
//
//	go run ./cmd/dungeonsim -zone 1 -stage 1
//	go run ./cmd/dungeonsim -boss ancient_dragon -player mage
//	go run ./cmd/dungeonsim -zone 1 -battles 10 -allocate attack:2,max_hp:2
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/udisondev/dungeonrpg/internal/ai"
	"github.com/udisondev/dungeonrpg/internal/config"
	"github.com/udisondev/dungeonrpg/internal/data"
	"github.com/udisondev/dungeonrpg/internal/game/dungeon"
	"github.com/udisondev/dungeonrpg/internal/game/session"
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

const DefaultConfigPath = "config/dungeonsim.yaml"

type options struct {
	configPath string
	player     string
	zone       string
	stage      int
	boss       string
	battles    int
	equip      string
	allocate   string
	list       bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts options
	flag.StringVar(&opts.configPath, "config", DefaultConfigPath, "config file")
	flag.StringVar(&opts.player, "player", "", "switch to this character first")
	flag.StringVar(&opts.zone, "zone", "1", "dungeon zone")
	flag.IntVar(&opts.stage, "stage", 0, "dungeon stage (0 = highest unlocked)")
	flag.StringVar(&opts.boss, "boss", "", "fight a special boss instead of a stage")
	flag.IntVar(&opts.battles, "battles", 1, "number of battles to play")
	flag.StringVar(&opts.equip, "equip", "", "comma separated item ids to equip before fighting")
	flag.StringVar(&opts.allocate, "allocate", "", "stat points to spend, e.g. attack:2,max_hp:1")
	flag.BoolVar(&opts.list, "list", false, "list characters, special bosses and unlocked stages, then exit")
	flag.Parse()

	if p := os.Getenv("DUNGEONRPG_CONFIG"); p != "" && opts.configPath == DefaultConfigPath {
		opts.configPath = p
	}

	if err := run(ctx, opts); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadGame(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	seed := cfg.Battle.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	rng := random.New(seed)
	slog.Info("dungeonsim starting", "data_dir", cfg.DataDir, "driver", cfg.Database.Driver, "seed", seed)

	catalog, err := data.Load(ctx, os.DirFS(cfg.DataDir))
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	sess, err := session.New(ctx, catalog, store, rng, session.Options{
		Rules: dungeon.Rules{
			MaxZone:       cfg.Dungeon.MaxZone,
			StagesPerZone: cfg.Dungeon.StagesPerZone,
		},
		StarterItems: cfg.Rewards.StarterItems,
	})
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if opts.list {
		printListing(catalog, sess)
		return nil
	}

	if opts.player != "" && opts.player != sess.Player().ID() {
		if err := sess.SwitchCharacter(ctx, opts.player); err != nil {
			return err
		}
	}
	if err := prepare(ctx, sess, opts); err != nil {
		return err
	}
	printSummary(sess)

	for i := 0; i < opts.battles; i++ {
		if err := ctx.Err(); err != nil {
			slog.Info("stopped", "battles", i)
			return nil
		}
		if err := playOne(ctx, sess, catalog, opts); err != nil {
			return err
		}
		printSummary(sess)
	}
	return nil
}

// prepare applies -equip and -allocate. Rejected actions are reported, not fatal.
func prepare(ctx context.Context, sess *session.Session, opts options) error {
	for _, id := range splitList(opts.equip) {
		msg, err := sess.Equip(ctx, id)
		if err != nil {
			fmt.Printf("Cannot equip %s: %v\n", id, err)
			continue
		}
		fmt.Println(msg)
	}

	if opts.allocate == "" {
		return nil
	}
	spend, err := parseAllocation(opts.allocate)
	if err != nil {
		return err
	}
	if err := sess.Allocate(ctx, spend); err != nil {
		fmt.Printf("Cannot allocate: %v\n", err)
	}
	return nil
}

func playOne(ctx context.Context, sess *session.Session, items model.ItemCatalog, opts options) error {
	var err error
	if opts.boss != "" {
		_, err = sess.StartSpecialBoss(opts.boss)
	} else {
		stage := opts.stage
		if stage == 0 {
			stage = sess.Rules().HighestStage(sess.Dungeon(), opts.zone)
		}
		_, err = sess.StartStage(opts.zone, stage)
	}
	if err != nil {
		return err
	}

	res, err := autoplay(ctx, sess, items)
	if err != nil {
		return err
	}
	for _, line := range res.Log {
		fmt.Println(line)
	}
	fmt.Printf("Winner: %s / EXP %d\n\n", res.Winner, res.Exp)
	return nil
}

func parseAllocation(s string) (map[model.StatKey]int, error) {
	spend := make(map[model.StatKey]int)
	for _, part := range splitList(s) {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("allocation %q: expected stat:points", part)
		}
		key, ok := model.ParseStatKey(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("allocation %q: unknown stat", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("allocation %q: %w", part, err)
		}
		spend[key] += n
	}
	return spend, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printSummary(sess *session.Session) {
	sum := sess.Summary()
	fmt.Printf("%s Lv %d / EXP %d/%d / points %d\n", sum.Name, sum.Level, sum.Exp, sum.ExpToNext, sum.StatPoints)
	fmt.Printf("ATK %d / MAG %d / DEF %d / MRES %d / HP %d/%d\n",
		sum.Stats.Attack, sum.Stats.Magic, sum.Stats.Defense, sum.Stats.MagicResist, sum.HP, sum.Stats.MaxHP)
}

func printListing(catalog *data.Catalog, sess *session.Session) {
	fmt.Println("Characters:")
	for _, id := range catalog.PlayerIDs() {
		marker := " "
		if id == sess.Player().ID() {
			marker = "*"
		}
		fmt.Printf(" %s %s (%s)\n", marker, id, catalog.Profile(id).Name)
	}
	fmt.Println("Special bosses:")
	for _, id := range catalog.SpecialBossIDs() {
		fmt.Printf("   %s (%s)\n", id, catalog.Boss(id).Name)
	}
	fmt.Println("Unlocked stages:")
	d := sess.Dungeon()
	for _, zone := range d.UnlockedZones {
		fmt.Printf("   zone %s: 1..%d\n", zone, sess.Rules().HighestStage(d, zone))
	}
}
