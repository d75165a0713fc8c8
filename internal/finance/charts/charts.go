package charts

import (
	"bytes"
	"fmt"

	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	pieWidth  = 800
	pieHeight = 600
)

type Slice struct {
	Label string
	Value decimal.Decimal
}

// RenderPie draws the slices as a PNG pie chart. Slices without a positive
// value are left out, and ErrNoChartData is returned when none remain.
func RenderPie(title string, slices []Slice) ([]byte, error) {
	total := decimal.Zero
	for _, s := range slices {
		if s.Value.IsPositive() {
			total = total.Add(s.Value)
		}
	}
	if total.IsZero() {
		return nil, financeErrors.ErrNoChartData
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if !s.Value.IsPositive() {
			continue
		}
		share := s.Value.Div(total).Mul(decimal.NewFromInt(100))
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%s%%)", s.Label, s.Value.StringFixed(2), share.StringFixed(1)),
			Value: s.Value.InexactFloat64(),
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  pieWidth,
		Height: pieHeight,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}
