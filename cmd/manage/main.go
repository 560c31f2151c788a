package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/database"
	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/pkg/cache"
	"github.com/qs3c/classifieds_server/internal/pkg/logger"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/repository"
	"github.com/qs3c/classifieds_server/internal/service"
)

const usage = `Usage: manage <command> [flags]

Commands:
  seed                 create the default plan and categories
  sweep                mark entries past their plan's lifetime as expired
  purge                delete entries expired for more than N days
  create-test-entries  insert test entries for an existing user
  create-superuser     create a staff account
  reassign-category    move every entry from one category to another
`

type app struct {
	cfg *config.Config
	db  *gorm.DB
	log *slog.Logger

	accounts  *service.AccountService
	category  *service.CategoryService
	lifecycle *service.LifecycleService
	entryRepo *repository.EntryRepository
	userRepo  *repository.AccountRepository
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := newApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		a.log.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	log := logger.New(cfg.Log.Level, "text")

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, cache invalidation skipped", "error", err)
		rdb = nil
	}

	planRepo := repository.NewPlanRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	planService := service.NewPlanService(planRepo, cfg)

	return &app{
		cfg:       cfg,
		db:        db,
		log:       log,
		accounts:  service.NewAccountService(accountRepo, planService),
		category:  service.NewCategoryService(categoryRepo, entryRepo, cache.New(rdb, "classifieds:", 0), log),
		lifecycle: service.NewLifecycleService(planRepo, entryRepo, store, log),
		entryRepo: entryRepo,
		userRepo:  accountRepo,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "seed":
		return a.seed()
	case "sweep":
		return a.sweep(ctx, args)
	case "purge":
		return a.purge(ctx, args)
	case "create-test-entries":
		return a.createTestEntries(args)
	case "create-superuser":
		return a.createSuperuser(args)
	case "reassign-category":
		return a.reassignCategory(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) seed() error {
	plan, err := database.Seed(a.db, a.cfg)
	if err != nil {
		return err
	}
	a.log.Info("Seed completed", "default_plan", plan.Name, "categories", len(a.cfg.Categories))
	return nil
}

func (a *app) sweep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Only count entries that would expire")
	_ = fs.Parse(args)

	if *dryRun {
		n, err := a.lifecycle.PendingExpirations(ctx)
		if err != nil {
			return err
		}
		a.log.Info("Dry run, nothing changed", "would_expire", n)
		return nil
	}

	n, err := a.lifecycle.ExpireEntries(ctx)
	a.log.Info("Sweep completed", "expired", n)
	return err
}

func (a *app) purge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	days := fs.Int("days", a.cfg.Lifecycle.PurgeAfterDays, "Delete entries expired more than N days ago")
	dryRun := fs.Bool("dry-run", false, "Only count entries that would be deleted")
	_ = fs.Parse(args)

	n, err := a.lifecycle.PurgeExpired(ctx, *days, *dryRun)
	if err != nil {
		return err
	}
	if *dryRun {
		a.log.Info("Dry run, nothing deleted", "would_purge", n, "days", *days)
		return nil
	}
	a.log.Info("Purge completed", "purged", n, "days", *days)
	return nil
}

// createTestEntries 直接写库，不受套餐额度限制
func (a *app) createTestEntries(args []string) error {
	fs := flag.NewFlagSet("create-test-entries", flag.ExitOnError)
	email := fs.String("email", "", "Owner email (required)")
	count := fs.Int("count", 200, "Number of entries to create")
	_ = fs.Parse(args)

	if *email == "" {
		return errors.New("-email is required")
	}

	owner, err := a.userRepo.GetByEmail(service.NormalizeEmail(*email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s does not exist", *email)
		}
		return err
	}

	misc, err := a.category.GetOrCreate("Misc")
	if err != nil {
		return err
	}

	for i := 0; i < *count; i++ {
		entry := &model.Entry{
			UserID:      owner.ID,
			CategoryID:  misc.ID,
			Title:       fmt.Sprintf("Test Entry %d", i),
			Description: fmt.Sprintf("This is a test entry number %d", i),
			Price:       decimal.NewFromInt(int64(i)),
			PhoneNumber: "+90" + strconv.Itoa(1111111111+i),
		}
		if err := a.entryRepo.Create(entry); err != nil {
			return fmt.Errorf("failed to create entry %d: %w", i, err)
		}
	}

	a.log.Info("Test entries created", "count", *count, "owner", owner.Email)
	return nil
}

func (a *app) createSuperuser(args []string) error {
	fs := flag.NewFlagSet("create-superuser", flag.ExitOnError)
	email := fs.String("email", "", "Email (required)")
	password := fs.String("password", "", "Password (required)")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("-email and -password are required")
	}

	info, err := a.accounts.CreateSuperuser(*email, *password)
	if err != nil {
		return err
	}
	a.log.Info("Superuser created", "id", info.ID, "email", info.Email)
	return nil
}

func (a *app) reassignCategory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reassign-category", flag.ExitOnError)
	from := fs.String("from", "", "Source category name (required)")
	to := fs.String("to", "Misc", "Target category name")
	_ = fs.Parse(args)

	if *from == "" {
		return errors.New("-from is required")
	}

	n, err := a.category.Reassign(ctx, *from, *to)
	if err != nil {
		return err
	}
	a.log.Info("Entries reassigned", "from", *from, "to", *to, "count", n)
	return nil
}
