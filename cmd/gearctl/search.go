package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gearcatalog-backend/internal/app"
	"github.com/heartmarshall/gearcatalog-backend/internal/config"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/catalog"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
)

// engineOptions select the catalog a search runs against. With catalogFile
// set, the catalog is loaded into memory and only SEARCH_* and EXTRACTOR_*
// environment settings apply.
type engineOptions struct {
	catalogFile string
	similarity  string
	brandsFile  string
}

func (eo *engineOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&eo.catalogFile, "catalog", "", "search a catalog YAML file instead of the configured backend")
	cmd.Flags().StringVar(&eo.similarity, "similarity", "", "similarity for --catalog: trigram or levenshtein (default: SEARCH_SIMILARITY)")
	cmd.Flags().StringVar(&eo.brandsFile, "brands", "", "brand vocabulary YAML file for --catalog")
}

// openEngine returns the catalog service and a func releasing what it opened.
func (o *rootOptions) openEngine(ctx context.Context, eo engineOptions) (*catalog.Service, func(), error) {
	if eo.catalogFile != "" {
		cfg, err := config.Defaults()
		if err != nil {
			return nil, nil, err
		}
		sim := eo.similarity
		if sim == "" {
			sim = cfg.Search.Similarity
		}
		repo, err := app.LoadMemoryCatalog(eo.catalogFile, sim)
		if err != nil {
			return nil, nil, err
		}
		ex, err := newExtractor(eo.brandsFile,
			extractor.WithRadius(cfg.Extractor.Radius),
			extractor.WithMaxCandidates(cfg.Extractor.MaxCandidates),
		)
		if err != nil {
			return nil, nil, err
		}
		o.logger.Debug("catalog loaded", "file", eo.catalogFile, "items", repo.Len(), "similarity", sim)
		return catalog.NewService(o.logger, repo, ex, app.CatalogConfig(cfg.Search)), func() {}, nil
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svcs, err := app.Build(ctx, cfg, o.logger)
	if err != nil {
		return nil, nil, err
	}
	return svcs.Catalog, svcs.Close, nil
}

type filterOptions struct {
	brand    string
	mount    string
	gearType string
	priceMin int64
	priceMax int64
}

func (fo *filterOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fo.brand, "brand", "", "only items of this brand")
	cmd.Flags().StringVar(&fo.mount, "mount", "", "only items with this mount")
	cmd.Flags().StringVar(&fo.gearType, "type", "", "only items of this gear type (CAMERA, LENS, ...)")
	cmd.Flags().Int64Var(&fo.priceMin, "price-min", 0, "minimum price in whole units")
	cmd.Flags().Int64Var(&fo.priceMax, "price-max", 0, "maximum price in whole units")
}

// filters sets only the filters given on the command line.
func (fo *filterOptions) filters(cmd *cobra.Command) catalog.Filters {
	var f catalog.Filters
	changed := cmd.Flags().Changed
	if changed("brand") {
		f.Brand = &fo.brand
	}
	if changed("mount") {
		f.Mount = &fo.mount
	}
	if changed("type") {
		gt := domain.GearType(strings.ToUpper(fo.gearType))
		f.GearType = &gt
	}
	if changed("price-min") {
		f.PriceMin = &fo.priceMin
	}
	if changed("price-max") {
		f.PriceMax = &fo.priceMax
	}
	return f
}

// newSearchCmd creates the search subcommand.
func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		eo       engineOptions
		fo       filterOptions
		sortMode string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search matches a query against catalog item names with substring and
fuzzy matching, and prints one page of results.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openEngine(cmd.Context(), eo)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Search(cmd.Context(), catalog.SearchInput{
				Query:    strings.Join(args, " "),
				Sort:     domain.SortMode(strings.ToLower(sortMode)),
				Page:     page,
				PageSize: pageSize,
				Filters:  fo.filters(cmd),
			})
			if err != nil {
				return err
			}
			return opts.printSearch(res)
		},
	}

	eo.bind(cmd)
	fo.bind(cmd)
	cmd.Flags().StringVar(&sortMode, "sort", "", "sort mode: relevance, name or newest")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (default from config)")

	return cmd
}

// newResolveCmd creates the resolve subcommand.
func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		eo       engineOptions
		fo       filterOptions
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "resolve [message]",
		Short: "Resolve a chat message to catalog items",
		Long: `Resolve extracts the best gear candidate from a message and searches the
catalog with it. The message is read from stdin when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := messageFrom(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, closeFn, err := opts.openEngine(cmd.Context(), eo)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Resolve(cmd.Context(), catalog.ResolveInput{
				Message:  message,
				PageSize: pageSize,
				Filters:  fo.filters(cmd),
			})
			if err != nil {
				return err
			}

			if res.Query == "" {
				if opts.outputJSON {
					return opts.ui.JSON(map[string]any{"query": nil, "items": []cliItem{}})
				}
				opts.ui.Warning("no gear candidate in message")
				return nil
			}

			opts.ui.Info("query: %s", res.Query)
			if opts.outputJSON {
				return opts.ui.JSON(map[string]any{
					"query": res.Query,
					"items": toCLIItems(res.Search.Items),
					"total": res.Search.Total,
				})
			}
			return opts.printSearch(res.Search)
		},
	}

	eo.bind(cmd)
	fo.bind(cmd)
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (default from config)")

	return cmd
}

type cliItem struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	GearType  string   `json:"gear_type"`
	Price     *float64 `json:"price,omitempty"`
	Relevance *float64 `json:"relevance,omitempty"`
}

func toCLIItems(items []domain.CatalogItem) []cliItem {
	out := make([]cliItem, 0, len(items))
	for i := range items {
		it := &items[i]
		ci := cliItem{
			Slug:      it.Slug,
			Name:      it.Name,
			Brand:     it.Brand(),
			GearType:  string(it.GearType),
			Relevance: it.Relevance,
		}
		if it.PriceCents != nil {
			p := float64(*it.PriceCents) / 100
			ci.Price = &p
		}
		out = append(out, ci)
	}
	return out
}

func (o *rootOptions) printSearch(res *catalog.SearchResult) error {
	items := toCLIItems(res.Items)
	if o.outputJSON {
		return o.ui.JSON(map[string]any{
			"items":       items,
			"total":       res.Total,
			"total_pages": res.TotalPages,
			"page":        res.Page,
			"page_size":   res.PageSize,
		})
	}

	if len(items) == 0 {
		o.ui.Warning("no matching items")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		price, relevance := "-", "-"
		if it.Price != nil {
			price = strconv.FormatFloat(*it.Price, 'f', 2, 64)
		}
		if it.Relevance != nil {
			relevance = strconv.FormatFloat(*it.Relevance, 'f', 2, 64)
		}
		rows = append(rows, []string{it.Name, it.Brand, it.GearType, price, relevance})
	}
	o.ui.Table([]string{"Name", "Brand", "Type", "Price", "Relevance"}, rows)
	o.ui.Info("page %d of %d, %d items", res.Page, res.TotalPages, res.Total)
	return nil
}
