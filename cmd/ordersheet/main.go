package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"ordersheet/internal"
	"ordersheet/internal/config"
	"ordersheet/internal/connectors"
	"ordersheet/internal/distance"
	"ordersheet/internal/export"
	"ordersheet/internal/importer"
	"ordersheet/internal/listener"
	"ordersheet/internal/logging"
	"ordersheet/internal/parse"
	"ordersheet/internal/storage"
	"ordersheet/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logging.New("ordersheet", cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "path to .xlsx order sheet")
		sheet := fs.Int("sheet", cfg.SheetIndex, "zero-based sheet index")
		wipe := fs.Bool("wipe", false, "wipe existing orders before import")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		svc := importer.New(db, cfg, log)
		result, err := svc.ImportFile(*file, *sheet, *wipe)
		must(err)
		fmt.Printf("import done id=%d orders=%d items=%d issues=%d\n", result.ImportID, result.Orders, result.Items, result.Issues)
	case "orders:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		search := fs.String("search", "", "substring filter on customer name")
		unfulfilled := fs.Bool("unfulfilled", false, "only orders not fully packed")
		delivery := fs.Bool("delivery", false, "only delivery orders")
		undelivered := fs.Bool("undelivered", false, "only orders not yet delivered")
		_ = fs.Parse(os.Args[2:])
		orders, err := db.ListOrders(storage.OrderFilter{
			Search:          *search,
			OnlyUnfulfilled: *unfulfilled,
			OnlyDelivery:    *delivery,
			OnlyUndelivered: *undelivered,
		})
		must(err)
		printOrders(db, orders)
	case "orders:pay":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order id")
		paid := fs.Bool("paid", true, "mark paid/unpaid")
		amount := fs.Float64("amount", 0, "amount received")
		change := fs.Float64("change", 0, "change given back")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*order) == "" {
			must(fmt.Errorf("--order is required"))
		}
		must(db.SetPaid(*order, *paid))
		if *amount > 0 {
			status := "none"
			if *change > 0 {
				status = "given"
			}
			must(db.RecordPayment(*order, *amount, *change, status))
		}
		fmt.Printf("order %s paid=%v\n", *order, *paid)
	case "orders:deliver":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order id")
		delivered := fs.Bool("delivered", true, "mark delivered/undelivered")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*order) == "" {
			must(fmt.Errorf("--order is required"))
		}
		must(db.SetDelivered(*order, *delivered))
		fmt.Printf("order %s delivered=%v\n", *order, *delivered)
	case "orders:pack":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order id")
		all := fs.Bool("all", false, "mark every item fully packed")
		clear := fs.Bool("clear", false, "reset packing on every item")
		item := fs.String("item", "", "single item id")
		packed := fs.Int("packed", 0, "packed quantity for --item")
		_ = fs.Parse(os.Args[2:])
		switch {
		case *all:
			if strings.TrimSpace(*order) == "" {
				must(fmt.Errorf("--order is required with --all"))
			}
			must(db.SetAllPacked(*order, true))
			fmt.Printf("order %s fully packed\n", *order)
		case *clear:
			if strings.TrimSpace(*order) == "" {
				must(fmt.Errorf("--order is required with --clear"))
			}
			must(db.SetAllPacked(*order, false))
			fmt.Printf("order %s packing cleared\n", *order)
		case strings.TrimSpace(*item) != "":
			must(db.SetPackedQuantity(*item, *packed))
			fmt.Printf("item %s packed=%d\n", *item, *packed)
		default:
			must(fmt.Errorf("one of --all, --clear or --item is required"))
		}
	case "items:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order id")
		name := fs.String("name", "", "item name")
		qty := fs.Int("qty", 1, "quantity")
		price := fs.Float64("price", -1, "unit price; resolved from the catalog when omitted")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*order) == "" || strings.TrimSpace(*name) == "" {
			must(fmt.Errorf("--order and --name are required"))
		}
		if *qty <= 0 {
			must(fmt.Errorf("--qty must be positive"))
		}
		itemName := util.NormalizeName(*name)
		unitPrice := *price
		if unitPrice < 0 {
			entries, err := db.ListCatalog()
			must(err)
			resolver := parse.NewResolver(priceMap(entries))
			canonical, resolved := resolver.Resolve(itemName)
			if resolved == nil {
				must(fmt.Errorf("no catalog price for %q; pass --price", itemName))
			}
			itemName = canonical
			unitPrice = *resolved
		}
		must(db.AddItemToOrder(uuid.NewString(), *order, itemName, *qty, unitPrice))
		fmt.Printf("added %s x%d @ %.2f to order %s\n", itemName, *qty, unitPrice, *order)
	case "distance:update":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order id")
		address := fs.String("address", "", "delivery address; stored address used when omitted")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*order) == "" {
			must(fmt.Errorf("--order is required"))
		}
		svc := distance.NewService(db, cfg, log)
		quote, err := svc.UpdateOrder(context.Background(), *order, *address)
		must(err)
		fmt.Printf("order %s distance=%.2fmi fee=%.2f address=%s\n", quote.OrderID, quote.Miles, quote.Fee, quote.Address)
	case "export:checklist":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		rows, err := db.ChecklistRows()
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no items to export"))
		}
		must(export.ChecklistToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.ListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.ListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		source, err := listener.MakeConnector(cfg, strings.ToLower(strings.TrimSpace(*provider)))
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, source)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "", "limit to one provider")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		svc := importer.New(db, cfg, log)
		if strings.TrimSpace(*messageID) != "" {
			if strings.TrimSpace(*provider) == "" {
				must(fmt.Errorf("--provider is required with --messageId"))
			}
			row, err := db.MustInboxByProviderMessageID(*provider, *messageID)
			must(err)
			sheets, err := svc.ImportInboxMessage(row)
			must(err)
			fmt.Printf("processed message %s sheets=%d\n", *messageID, sheets)
			return
		}
		messages, sheets, err := svc.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending messages=%d sheets=%d\n", messages, sheets)
	case "mail:listen":
		s := listener.NewService(db, cfg, log)
		must(s.Run(context.Background()))
	case "wipe":
		must(db.WipeAll())
		fmt.Println("all orders, items, catalog entries and issues wiped")
	default:
		usage()
		os.Exit(1)
	}
}

func printOrders(db *storage.DB, orders []internal.OrderRecord) {
	for _, o := range orders {
		total := "?"
		if o.Total != nil {
			total = fmt.Sprintf("%.2f", *o.Total)
		}
		flags := make([]string, 0, 4)
		if o.IsPaid {
			flags = append(flags, "paid")
		}
		if o.WantsDelivery {
			flags = append(flags, "delivery")
		}
		if o.IsFulfilled {
			flags = append(flags, "packed")
		}
		if o.IsDelivered {
			flags = append(flags, "delivered")
		}
		fmt.Printf("%s  %-12s total=%-8s %s\n", o.OrderID, o.Customer, total, strings.Join(flags, ","))
		items, err := db.ListOrderItems(o.OrderID)
		must(err)
		for _, item := range items {
			price := "?"
			if item.Price != nil {
				price = fmt.Sprintf("%.2f", *item.Price)
			}
			fmt.Printf("    %s x%d @ %s packed=%d/%d\n", item.Name, item.Quantity, price, item.PackedQuantity, item.Quantity)
		}
	}
	fmt.Printf("%d orders\n", len(orders))
}

func priceMap(entries []internal.CatalogEntry) map[string]float64 {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[util.NormalizeName(e.Name)] = e.UnitPrice
	}
	return out
}

func usage() {
	fmt.Println("usage: ordersheet <command>")
	fmt.Println("commands:")
	fmt.Println("  import --file=sheet.xlsx [--sheet=0] [--wipe]")
	fmt.Println("  orders:list [--search=...] [--unfulfilled] [--delivery] [--undelivered]")
	fmt.Println("  orders:pay --order=... [--paid=false] [--amount=50 --change=2]")
	fmt.Println("  orders:deliver --order=... [--delivered=false]")
	fmt.Println("  orders:pack --order=... --all|--clear | --item=... --packed=2")
	fmt.Println("  items:add --order=... --name=... --qty=1 [--price=12.5]")
	fmt.Println("  distance:update --order=... [--address=...]")
	fmt.Println("  export:checklist --out=./out/checklist.xlsx")
	fmt.Println("  mail:fetch [--provider=gmail|imap] [--label=INBOX] [--max=50]")
	fmt.Println("  mail:process [--provider=...] [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  wipe")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
