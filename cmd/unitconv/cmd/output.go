package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/adapters/web"
	"github.com/Nicolas2912/UnitConverter/internal/app"
	"github.com/Nicolas2912/UnitConverter/internal/config"
	"github.com/Nicolas2912/UnitConverter/internal/domain/convert"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
	"github.com/Nicolas2912/UnitConverter/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// formatConversion formats a conversion result for terminal display.
//
//	⚡ 5 km = 3.106855961 mi │ Length
//	  Conversion factor: divide by 1.60934 (1 km = 0.6213711922 mi)
func formatConversion(res convert.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s %s = %s%s%s %s%s │ %s%s%s\n",
		colorBold,
		convert.FormatNumber(res.Input), res.From,
		colorGreen, convert.FormatNumber(res.Value), colorReset+colorBold, res.To, colorReset,
		colorMagenta, res.Dimension, colorReset))
	sb.WriteString(fmt.Sprintf("  %s%s%s\n", colorGray, res.Explanation, colorReset))
	return sb.String()
}

// formatCatalog lists every dimension. Verbose mode expands each unit.
func formatCatalog(reg *units.Registry, verbose bool) string {
	var sb strings.Builder
	dims := reg.Dimensions()
	sb.WriteString(fmt.Sprintf("%s⚡ %d dimensions%s │ %d units\n", colorBold, len(dims), colorReset, reg.UnitCount()))
	for _, key := range dims {
		d, err := reg.Dimension(key)
		if err != nil {
			continue
		}
		if verbose {
			sb.WriteString(formatDimension(d, false))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s%-13s%s %s\n", colorCyan, d.Key(), colorReset, strings.Join(d.Units(), ", ")))
	}
	return sb.String()
}

// formatDimension lists one dimension's units with names, aliases, and
// how each relates to the base unit.
//
//	    F       Fahrenheit                     °C = (°F - 32) × 5/9  aliases: Fahrenheit, °F, degF
func formatDimension(d *units.Dimension, header bool) string {
	var sb strings.Builder
	base := d.Base()
	if header {
		sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ base %s │ %d units\n", colorBold, d.Key(), colorReset, base.ID, d.Len()))
	} else {
		sb.WriteString(fmt.Sprintf("  %s%s%s %s(base: %s)%s\n", colorCyan, d.Key(), colorReset, colorGray, base.ID, colorReset))
	}
	for _, u := range d.All() {
		var rel string
		switch {
		case d.IsBase(u):
			rel = "base unit"
		case u.Rule.Kind == units.Affine:
			rel = u.Rule.ToBaseFormula
		default:
			rel = fmt.Sprintf("1 %s = %s %s", u.Sym(), convert.FormatNumber(u.Rule.Factor), base.Sym())
		}
		sb.WriteString(fmt.Sprintf("    %-7s %-30s %s%s%s", u.ID, u.Name, colorGray, rel, colorReset))
		if len(u.Aliases) > 0 {
			sb.WriteString(fmt.Sprintf("  %saliases: %s%s", colorYellow, strings.Join(u.Aliases, ", "), colorReset))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatStats formats usage counters for terminal display.
func formatStats(s *ports.UsageStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ usage stats%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  Conversions:  %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("  Failed:       %d\n", s.Failed))
	if s.LastAt > 0 {
		sb.WriteString(fmt.Sprintf("  Last:         %s\n", time.Unix(s.LastAt, 0).Format(time.RFC3339)))
	}

	if len(s.ByOutcome) > 0 {
		sb.WriteString(fmt.Sprintf("\n  %sOutcomes%s\n", colorBold, colorReset))
		for _, k := range sortedKeys(s.ByOutcome) {
			color := colorYellow
			if k == ports.OutcomeOK {
				color = colorGreen
			}
			sb.WriteString(fmt.Sprintf("    %s%-18s%s %d\n", color, k, colorReset, s.ByOutcome[k]))
		}
	}

	if len(s.ByDimension) > 0 {
		sb.WriteString(fmt.Sprintf("\n  %sDimensions%s\n", colorBold, colorReset))
		dims := make([]string, 0, len(s.ByDimension))
		for k := range s.ByDimension {
			dims = append(dims, k)
		}
		// Busiest first
		sort.Slice(dims, func(i, j int) bool {
			a, b := s.ByDimension[dims[i]], s.ByDimension[dims[j]]
			if a.Conversions != b.Conversions {
				return a.Conversions > b.Conversions
			}
			return dims[i] < dims[j]
		})
		for _, k := range dims {
			du := s.ByDimension[k]
			sb.WriteString(fmt.Sprintf("    %s%-13s%s %d ok, %d failed\n", colorCyan, k, colorReset, du.Conversions, du.Failed))
			for _, pair := range topPairs(du.Pairs, 3) {
				sb.WriteString(fmt.Sprintf("      %s%-16s%s %d\n", colorGray, pair, colorReset, du.Pairs[pair]))
			}
		}
	}
	return sb.String()
}

// configView is everything the config command prints.
type configView struct {
	Root     string
	File     string
	Settings *config.Config
	Paths    *app.Paths
	Server   string
	Health   *web.HealthResult
	Running  bool
}

func formatConfig(v configView) string {
	var sb strings.Builder
	s := v.Settings

	file := v.File
	if file == "" {
		file = fmt.Sprintf("%s(none, defaults)%s", colorGray, colorReset)
	}
	stats := fmt.Sprintf("%sdisabled%s", colorGray, colorReset)
	if s.Stats.Enabled {
		db := s.Stats.DBPath
		if db == "" {
			db = v.Paths.DB
		}
		stats = fmt.Sprintf("%senabled%s (%s)", colorGreen, colorReset, db)
	}
	server := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if v.Running {
		server = fmt.Sprintf("%s✓ running%s at %s", colorGreen, colorReset, v.Server)
		if v.Health != nil {
			server += fmt.Sprintf(" (up %s, %.1f conv/min)", v.Health.Uptime, v.Health.ConversionsPerMin)
		}
	}

	sb.WriteString(fmt.Sprintf("%s⚡ unitconv config%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  Root:       %s\n", v.Root))
	sb.WriteString(fmt.Sprintf("  File:       %s\n", file))
	sb.WriteString(fmt.Sprintf("  Addr:       %s\n", s.Server.Addr))
	sb.WriteString(fmt.Sprintf("  CORS:       %s\n", strings.Join(s.Server.CORSOrigins, ", ")))
	sb.WriteString(fmt.Sprintf("  Log:        %s (%s)\n", s.Log.Level, s.Log.Format))
	sb.WriteString(fmt.Sprintf("  Stats:      %s\n", stats))
	sb.WriteString(fmt.Sprintf("  Data dir:   %s\n", v.Paths.Root))
	sb.WriteString(fmt.Sprintf("  Server:     %s\n", server))
	return sb.String()
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topPairs returns up to n pair keys by descending count.
func topPairs(pairs map[string]uint64, n int) []string {
	keys := sortedKeys(pairs)
	sort.SliceStable(keys, func(i, j int) bool {
		return pairs[keys[i]] > pairs[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
