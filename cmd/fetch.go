package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/validation"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

type fetchOptions struct {
	latitude  string
	longitude string
	startDate string
	endDate   string
	page      int
	rows      int
}

func fetchCmd() *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one archive report and print a page of it",
		Long:  `Validate the query, fetch the daily archive once and print the requested page as a table. Unset flags fall back to the configured dashboard defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.latitude, "lat", "", "latitude in decimal degrees")
	cmd.Flags().StringVar(&opts.longitude, "lon", "", "longitude in decimal degrees")
	cmd.Flags().StringVar(&opts.startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.endDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to print, 1-based")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "rows per page (default: dashboard.rows_per_page)")

	return cmd
}

func (o *fetchOptions) formInput(defaults config.DashboardConfig) validation.FormInput {
	in := validation.FormInput{
		Latitude:  o.latitude,
		Longitude: o.longitude,
		StartDate: o.startDate,
		EndDate:   o.endDate,
	}
	if in.Latitude == "" {
		in.Latitude = defaults.DefaultLatitude
	}
	if in.Longitude == "" {
		in.Longitude = defaults.DefaultLongitude
	}
	if in.StartDate == "" {
		in.StartDate = defaults.DefaultStartDate
	}
	if in.EndDate == "" {
		in.EndDate = defaults.DefaultEndDate
	}
	return in
}

func runFetch(cmd *cobra.Command, opts *fetchOptions) error {
	cfg := config.GetConfig()

	rows := opts.rows
	if rows == 0 {
		rows = cfg.Dashboard.RowsPerPage
	}
	if !slices.Contains(cfg.Dashboard.AllowedRowsPerPage, rows) {
		return fmt.Errorf("%w: got %d, allowed %v", dashboard.ErrInvalidRowsPerPage, rows, cfg.Dashboard.AllowedRowsPerPage)
	}
	if opts.page < 1 {
		return fmt.Errorf("%w: got %d", dashboard.ErrInvalidPage, opts.page)
	}

	query, err := validation.Validate(opts.formInput(cfg.Dashboard))
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			printFieldErrors(cmd.ErrOrStderr(), verr)
		}
		return err
	}

	report, err := newFetcher(cfg).Fetch(cmd.Context(), query)
	if err != nil {
		return err
	}

	return renderPage(cmd.OutOrStdout(), query, dashboard.Paginate(report, opts.page, rows))
}

func printFieldErrors(w io.Writer, verr *validation.Error) {
	for _, name := range []string{"latitude", "longitude", "start_date", "end_date"} {
		if msg, ok := verr.Fields[name]; ok {
			fmt.Fprintf(w, "%s: %s\n", name, msg)
		}
	}
}

func renderPage(w io.Writer, q weather.Query, view dashboard.PageView) error {
	fmt.Fprintf(w, "Daily temperatures for %s, %s from %s to %s\n\n",
		formatCoord(q.Latitude), formatCoord(q.Longitude), q.StartDate, q.EndDate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAPPARENT MAX\tAPPARENT MIN\tAPPARENT MEAN\tMAX\tMIN\tMEAN")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Time,
			formatTemp(r.ApparentTempMax), formatTemp(r.ApparentTempMin), formatTemp(r.ApparentTempMean),
			formatTemp(r.Temp2MMax), formatTemp(r.Temp2MMin), formatTemp(r.Temp2MMean))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if unit, ok := view.Units[weather.MetricTemperatureMax]; ok {
		fmt.Fprintf(w, "\nUnits: %s\n", unit)
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d days)\n", view.CurrentPage, view.TotalPages, view.TotalRows)
	return err
}

// formatTemp prints a missing value as "-".
func formatTemp(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}
