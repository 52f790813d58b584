package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/catalog"
	"github.com/david/market-finder/internal/ingest"
	"github.com/david/market-finder/internal/models"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and normalize the snapshot, failing on any load error",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print markets per state and facet counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Render one market with its display labels",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// loadStrict is the non-degrading counterpart of the server's snapshot load.
func loadStrict() ([]models.Market, error) {
	raw, err := ingest.LoadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", dataPath, ingest.FailureKind(err), err)
	}
	return ingest.Normalize(raw), nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	markets, err := loadStrict()
	if err != nil {
		return err
	}

	located := 0
	for _, m := range markets {
		if m.Location != nil {
			located++
		}
	}
	logger.Debug("snapshot validated", zap.String("path", dataPath), zap.Int("markets", len(markets)))
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d markets (%d with coordinates) in %s\n", len(markets), located, dataPath)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	markets, err := loadStrict()
	if err != nil {
		return err
	}
	agg := catalog.Aggregate(markets, catalog.Criteria{})

	states := table.NewWriter()
	states.SetOutputMirror(cmd.OutOrStdout())
	states.SetTitle(fmt.Sprintf("Markets by state (%d total)", len(markets)))
	states.AppendHeader(table.Row{"State", "Markets"})
	for _, a := range agg.States {
		states.AppendRow(table.Row{a.Value, a.Count})
	}
	states.Render()

	facets := table.NewWriter()
	facets.SetOutputMirror(cmd.OutOrStdout())
	facets.SetTitle("Facets")
	facets.AppendHeader(table.Row{"Group", "Facet", "Markets"})
	for _, group := range []struct {
		name   string
		counts []catalog.Aggregation
	}{
		{"payment", agg.Payments},
		{"product type", agg.ProductTypes},
		{"amenity", agg.Amenities},
		{"sales channel", agg.SalesChannels},
	} {
		for _, a := range group.counts {
			facets.AppendRow(table.Row{group.name, a.Value, a.Count})
		}
	}
	facets.Render()
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	markets, err := loadStrict()
	if err != nil {
		return err
	}
	m, ok := catalog.GetByID(markets, args[0])
	if !ok {
		return fmt.Errorf("market %q not found", args[0])
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(m.Name)
	t.AppendRows([]table.Row{
		{"ID", m.ID},
		{"Address", m.FullAddress()},
		{"Hours", m.Hours()},
		{"Products", strings.Join(m.ProductList(), ", ")},
		{"Payment", strings.Join(m.PaymentLabels(), ", ")},
		{"Production", strings.Join(m.ProductionLabels(), ", ")},
		{"Amenities", strings.Join(m.AmenityLabels(), ", ")},
		{"Sales channels", strings.Join(m.SalesChannelLabels(), ", ")},
	})
	t.Render()
	return nil
}
