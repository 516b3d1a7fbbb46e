// mrpctl is a terminal client for the MRP backend: it refreshes the
// aggregate cache, inspects parts/orders/inventory, runs the
// production-readiness workflow and moves spreadsheets in and out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-mrp/internal/config"
	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/export"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
	"github.com/bitfantasy/nimo-mrp/internal/store"
	"github.com/bitfantasy/nimo-mrp/internal/workflow"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const usage = `mrpctl - MRP backend client

Usage: mrpctl <command> [args]

Commands:
  refresh                      fetch all collections and print a summary
  parts                        list cached parts
  customers                    list cached customers
  machines                     list machines
  orders                       list cached sales orders
  materials                    list cached materials
  inventory                    list cached inventory batches
  suppliers                    list suppliers
  bom <part-id>                print the bill of materials for a part
  check <order-id>             run the material-sufficiency check
  start-production <order-id>  check materials and transition the order
  export-orders <file.xlsx>    write cached sales orders to a workbook
  export-bom <part-id> <file.xlsx>
  csv-export <entity> [dir]    download a CSV dump (parts, customers, ...)
  csv-import <entity> <file>   upload a CSV file
  version                      print build info
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize", zap.Error(err))
	}

	if err := app.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mrpctl: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	gw     *gateway.Client
	cache  *store.Store
	wf     *workflow.Workflow
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	opts := []gateway.Option{
		gateway.WithTimeout(cfg.API.RequestTimeout),
		gateway.WithLogger(logger),
	}
	if cfg.API.Token != "" {
		opts = append(opts, gateway.WithTokenSource(gateway.StaticTokenSource(cfg.API.Token)))
	}
	gw := gateway.NewClient(cfg.API.BaseURL, opts...)

	storeOpts := []store.Option{store.WithLogger(logger)}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		storeOpts = append(storeOpts, store.WithSnapshotRedis(rdb))
	}
	cache := store.New(gw, storeOpts...)

	return &app{
		cfg:    cfg,
		logger: logger,
		gw:     gw,
		cache:  cache,
		wf:     workflow.New(gw, cache, logger),
	}, nil
}

// refresh fills the cache, preferring a snapshot warm start when redis
// is enabled so lists render before the network round trips finish.
func (a *app) refresh(ctx context.Context) error {
	if a.cfg.Redis.Enabled {
		if err := a.cache.LoadSnapshot(ctx); err != nil {
			a.logger.Debug("no usable cache snapshot", zap.Error(err))
		}
	}
	if err := a.cache.FetchAll(ctx); err != nil {
		return err
	}
	if a.cfg.Redis.Enabled {
		if err := a.cache.SaveSnapshot(ctx, a.cfg.Redis.SnapshotTTL); err != nil {
			a.logger.Warn("failed to save cache snapshot", zap.Error(err))
		}
	}
	return nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "version":
		fmt.Printf("mrpctl %s (built %s)\n", Version, BuildTime)
		return nil
	case "refresh":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		fmt.Printf("parts=%d customers=%d materials=%d inventory=%d orders=%d\n",
			len(a.cache.Parts()), len(a.cache.Customers()), len(a.cache.Materials()),
			len(a.cache.Inventory()), len(a.cache.SalesOrders()))
		return nil
	case "parts":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tPART NUMBER\tDESCRIPTION\tMATERIAL\tPRICE")
		for _, p := range a.cache.Parts() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.PartNumber, p.Description, p.Material, p.Price)
		}
		return w.Flush()
	case "customers":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tEMAIL\tPHONE")
		for _, c := range a.cache.Customers() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				c.ID, c.Name, c.ContactPerson, c.Email, c.Phone)
		}
		return w.Flush()
	case "machines":
		machines, err := a.gw.GetMachines(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tUP\tSHIFTS\tHOURS/SHIFT\tCURRENT JOB")
		for _, m := range machines {
			fmt.Fprintf(w, "%d\t%s\t%t\t%d\t%d\t%s\n",
				m.ID, m.Name, m.Status, m.CurrentShifts, m.HoursPerShift, m.CurrentJob)
		}
		return w.Flush()
	case "orders":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tORDER\tCUSTOMER\tDUE\tSTATUS\tTOTAL")
		for _, o := range a.cache.SalesOrders() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				o.ID, o.OrderNumber, o.Customer.Name, o.DueDate, o.Status, o.TotalAmount)
		}
		return w.Flush()
	case "materials":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tPRICE\tMOQ\tLEAD DAYS")
		for _, m := range a.cache.Materials() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
				m.ID, m.Name, m.Type, m.Price, m.MOQ, m.LeadTimeDays)
		}
		return w.Flush()
	case "inventory":
		if err := a.refresh(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tMATERIAL\tBATCH\tQTY\tLOCATION\tSTATUS")
		for _, item := range a.cache.Inventory() {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
				item.ID, item.MaterialID, item.BatchNumber, item.Quantity, item.Location, item.Status)
		}
		return w.Flush()
	case "suppliers":
		suppliers, err := a.cache.FetchSuppliers(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tLEAD DAYS\tRATING\tACTIVE")
		for _, s := range suppliers {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%t\n",
				s.ID, s.Name, s.LeadTimeDays, s.Rating, s.Active)
		}
		return w.Flush()
	case "bom":
		partID, err := intArg(args, 0, "part-id")
		if err != nil {
			return err
		}
		items, err := a.cache.FetchBOMItems(ctx, partID)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tCHILD PART\tQTY\tPROCESS STEP\tNOTES")
		for _, item := range items {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n",
				item.ID, item.ChildPartID, item.Quantity, item.ProcessStep, item.Notes)
		}
		return w.Flush()
	case "check":
		orderID, err := intArg(args, 0, "order-id")
		if err != nil {
			return err
		}
		result, err := a.wf.CheckMaterials(ctx, orderID)
		if err != nil {
			return err
		}
		if result.HasSufficientMaterials {
			fmt.Println("materials sufficient; order can start production")
			return nil
		}
		printShortages(result.MissingMaterials)
		return nil
	case "start-production":
		orderID, err := intArg(args, 0, "order-id")
		if err != nil {
			return err
		}
		if err := a.refresh(ctx); err != nil {
			return err
		}
		outcome, err := a.wf.StartProduction(ctx, orderID)
		if err != nil {
			return err
		}
		if outcome.Started {
			fmt.Printf("order %s is now %s\n", outcome.Order.OrderNumber, outcome.Order.Status)
			return nil
		}
		fmt.Printf("cannot start production for %s: insufficient materials\n", outcome.Order.OrderNumber)
		printShortages(outcome.Missing)
		hint, err := workflow.PurchasingHintURL(outcome.Missing)
		if err == nil {
			fmt.Printf("purchasing: %s\n", hint)
		}
		return nil
	case "export-orders":
		if len(args) < 1 {
			return fmt.Errorf("usage: export-orders <file.xlsx>")
		}
		if err := a.refresh(ctx); err != nil {
			return err
		}
		if err := export.Orders(a.cache.SalesOrders(), args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	case "export-bom":
		partID, err := intArg(args, 0, "part-id")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: export-bom <part-id> <file.xlsx>")
		}
		if err := a.refresh(ctx); err != nil {
			return err
		}
		items, err := a.cache.FetchBOMItems(ctx, partID)
		if err != nil {
			return err
		}
		partNumber := strconv.Itoa(partID)
		for _, p := range a.cache.Parts() {
			if p.ID == partID {
				partNumber = p.PartNumber
			}
		}
		if err := export.BOM(partNumber, items, args[1]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[1])
		return nil
	case "csv-export":
		if len(args) < 1 {
			return fmt.Errorf("usage: csv-export <entity> [dir]")
		}
		dir := "."
		if len(args) > 1 {
			dir = args[1]
		}
		path, err := export.DownloadCSV(ctx, a.gw, args[0], dir)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	case "csv-import":
		if len(args) < 2 {
			return fmt.Errorf("usage: csv-import <entity> <file>")
		}
		msg, err := export.UploadCSV(ctx, a.gw, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printShortages(missing []entity.MissingMaterial) {
	w := newTable()
	fmt.Fprintln(w, "MATERIAL\tMISSING QTY\tLEAD DAYS")
	for _, m := range missing {
		fmt.Fprintf(w, "%s\t%s\t%d\n", m.MaterialName, m.MissingQuantity, m.LeadTimeDays)
	}
	w.Flush()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func intArg(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}
