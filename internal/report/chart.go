package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 400)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// Price history (line)
// ════════════════════════════════════════════════════════════════════

// PriceChart draws adjusted closes as a single line with date labels.
func PriceChart(points []models.PricePoint, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if len(points) < 2 {
		return emptySVG(cfg, "Not enough price data")
	}
	if cfg.Title == "" {
		cfg.Title = "Adjusted Close"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minVal = math.Min(minVal, p.AdjClose)
		maxVal = math.Max(maxVal, p.AdjClose)
	}
	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.05
	maxVal += vRange * 0.05
	vRange = maxVal - minVal

	var sb strings.Builder
	writeFrame(&sb, cfg)

	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.1f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val)
	}

	n := len(points)
	xAt := func(i int) float64 { return float64(px) + float64(i)*float64(pw)/float64(n-1) }

	parts := make([]string, 0, n)
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		cy := float64(py+ph) - (p.AdjClose-minVal)/vRange*float64(ph)
		parts = append(parts, fmt.Sprintf("%s%.1f,%.1f", cmd, xAt(i), cy))
	}
	fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="#2196f3" stroke-width="1.5"/>`, strings.Join(parts, " "))

	interval := max(n/6, 1)
	for i := 0; i < n; i += interval {
		fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			xAt(i), py+ph+18, cfg.FontSize-1, cfg.TextColor, escapeXML(points[i].Date))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Scenario comparison (horizontal bars)
// ════════════════════════════════════════════════════════════════════

// ScenarioChart draws the P/E and DCF value of each scenario as horizontal
// bars with the current price as a vertical reference line.
func ScenarioChart(rows []valuation.ScenarioValuation, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if len(rows) == 0 {
		return emptySVG(cfg, "No scenarios")
	}
	cfg.MarginLeft = 170 // wider for labels
	if cfg.Title == "" {
		cfg.Title = "Intrinsic Value by Scenario"
	}

	type bar struct {
		label string
		value float64
		color string
	}
	var bars []bar
	for _, r := range rows {
		bars = append(bars,
			bar{r.Scenario + " (P/E)", r.IntrinsicPE, "#ff9800"},
			bar{r.Scenario + " (DCF)", r.IntrinsicDCF, "#2196f3"},
		)
	}
	price := rows[0].CurrentPrice

	minVal, maxVal := math.Min(0, price), math.Max(0, price)
	for _, b := range bars {
		minVal = math.Min(minVal, b.value)
		maxVal = math.Max(maxVal, b.value)
	}
	valRange := maxVal - minVal
	if valRange < 0.001 {
		valRange = 1
	}

	px, py, pw, ph := cfg.plotArea()
	xAt := func(v float64) float64 { return float64(px) + (v-minVal)/valRange*float64(pw) }

	barH := math.Min(float64(ph)/float64(len(bars))*0.7, 30)
	gap := (float64(ph) - barH*float64(len(bars))) / float64(len(bars)+1)

	var sb strings.Builder
	writeFrame(&sb, cfg)

	zeroX := xAt(0)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999" stroke-width="1"/>`,
		zeroX, py, zeroX, py+ph)

	for i, b := range bars {
		by := float64(py) + gap + float64(i)*(barH+gap)
		bx, bw := zeroX, xAt(b.value)-zeroX
		if bw < 0 {
			bx, bw = xAt(b.value), -bw
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, bw, barH, b.color)
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(b.label))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%.2f</text>`,
			bx+bw+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, b.value)
	}

	priceX := xAt(price)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#dc2626" stroke-width="2" stroke-dasharray="6,3"/>`,
		priceX, py, priceX, py+ph)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="%d" fill="#dc2626" text-anchor="middle">Price %.2f</text>`,
		priceX, py+ph+18, cfg.FontSize, price)

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func writeFrame(sb *strings.Builder, cfg ChartConfig) {
	fmt.Fprintf(sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
	fmt.Fprintf(sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, cfg.Width, cfg.Height, cfg.BgColor)
	fmt.Fprintf(sb, `<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title))
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
