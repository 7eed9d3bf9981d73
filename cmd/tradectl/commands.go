package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/username/tradebook/backend/src/config"
	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/utils"
)

type listCmd struct{}

func (*listCmd) Name() string             { return "list" }
func (*listCmd) Synopsis() string         { return "list all trades with their derived totals" }
func (*listCmd) Usage() string            { return "tradectl list\n" }
func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctrl, session := newSession()
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rows, err := session.Rows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tSYM\tPRICE\tQTY\tFEES\tTOTAL")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\t%g\t%g\t%.2f\n",
			row.ID, utils.FormatLocalYMD(row.Date), row.OrderType, row.Sym,
			row.UnitPrice, row.Quantity, row.Fees, row.Total)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the store's contents with a CSV file" }
func (*importCmd) Usage() string {
	return `tradectl import <file.csv>

  Full-replace import: every existing trade is deleted and the file's
  contents are created in its place. Nothing is applied on a parse or
  validation failure.
`
}
func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import expects exactly one CSV file argument")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	ctrl, _ := newSession()
	if err := ctrl.ImportCSV(ctx, utils.MaxBytesReader(file, config.Cfg.MaxImportSizeBytes)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	dir string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the current trades to xport.csv" }
func (*exportCmd) Usage() string    { return "tradectl export [-dir <directory>]\n" }
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "Directory to write the export file into.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctrl, _ := newSession()
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	name, data, err := ctrl.ExportCSV()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(path)
	return subcommands.ExitSuccess
}

type addCmd struct {
	date      string
	orderType string
	sym       string
	unitPrice float64
	quantity  float64
	fees      float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a single trade" }
func (*addCmd) Usage() string {
	return "tradectl add -date YYYY-MM-DD -type Buy|Sell -sym SYM -price P -qty Q [-fees F]\n"
}
func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Trade date as YYYY-MM-DD.")
	f.StringVar(&c.orderType, "type", "", "Order type: Buy or Sell.")
	f.StringVar(&c.sym, "sym", "", "Ticker symbol.")
	f.Float64Var(&c.unitPrice, "price", 0, "Unit price.")
	f.Float64Var(&c.quantity, "qty", 0, "Quantity; fractional shares allowed.")
	f.Float64Var(&c.fees, "fees", 0, "Fees.")
}

// draftFields turns the flag values into draft fields, normalizing the
// order type so "-type buy" and "-type Buy" both land as "Buy".
func (c *addCmd) draftFields() (map[string]any, error) {
	date, err := utils.ParseLocalYMD(c.date)
	if err != nil {
		return nil, fmt.Errorf("invalid -date: %w", err)
	}
	orderType, ok := models.ParseOrderType(c.orderType)
	if !ok {
		return nil, fmt.Errorf("invalid -type %q: must be Buy or Sell", c.orderType)
	}
	return map[string]any{
		"date":      date,
		"orderType": orderType.String(),
		"sym":       c.sym,
		"unitPrice": c.unitPrice,
		"quantity":  c.quantity,
		"fees":      c.fees,
	}, nil
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fields, err := c.draftFields()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ctrl, session := newSession()
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	session.BeginAdd()
	for field, value := range fields {
		session.SetDraftField(field, value)
	}
	if err := session.Commit(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string             { return "delete" }
func (*deleteCmd) Synopsis() string         { return "delete trades by id" }
func (*deleteCmd) Usage() string            { return "tradectl delete <id> [<id>...]\n" }
func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := make([]int64, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid trade id %q\n", arg)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}

	ctrl, session := newSession()
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	session.Select(ids)
	if err := session.DeleteSelected(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
