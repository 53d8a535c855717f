// Package tui is an interactive browser for MPCE plan results and FSAE
// estimates, built on Bubble Tea.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/wattjam/mpce/internal/calculation"
	"github.com/wattjam/mpce/internal/compare"
	"github.com/wattjam/mpce/internal/config"
	"github.com/wattjam/mpce/internal/domain"
)

// field indices into Model.inputs.
const (
	fieldRegion = iota
	fieldStatus
	fieldPrimary
	fieldCount
)

// Model is the root Bubble Tea model for the whole program.
type Model struct {
	scene         Scene
	previousScene Scene

	width  int
	height int

	configPath string
	config     *domain.Configuration
	loading    bool
	err        error

	inputs     [fieldCount]textinput.Model
	focusIndex int

	engineResult domain.EngineResult
	comparison   *compare.ComparisonSet
	resultsTable table.Model

	fsaeResult domain.FSAEResult
}

// NewModel builds the initial model for a configuration file path.
func NewModel(configPath string) Model {
	m := Model{
		scene:      SceneHome,
		configPath: configPath,
		loading:    true,
		width:      96,
		height:     28,
	}

	labels := [fieldCount]string{
		fieldRegion:  "e.g. northeast",
		fieldStatus:  "e.g. fullTime",
		fieldPrimary: "serviceId=count,...",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 64
		ti.Width = 32
		m.inputs[i] = ti
	}
	m.inputs[fieldRegion].Focus()

	columns := []table.Column{
		{Title: "Plan", Width: 22},
		{Title: "Annual Cost", Width: 14},
		{Title: "vs Cheapest", Width: 14},
		{Title: "Premium", Width: 12},
		{Title: "Fund Offset", Width: 12},
	}
	m.resultsTable = table.New(table.WithColumns(columns), table.WithFocused(false), table.WithHeight(10))

	return m
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewLoader().LoadFromFile(path)
		return ConfigLoadedMsg{Config: cfg, Err: err}
	}
}

// calculateCmd runs a full MPCE calculate+compare pass against the current
// form inputs.
func (m Model) calculateCmd() tea.Cmd {
	cfg := m.config
	regionID := m.inputs[fieldRegion].Value()
	statusID := m.inputs[fieldStatus].Value()
	primaryRaw := m.inputs[fieldPrimary].Value()

	return func() tea.Msg {
		primary, err := parsePrimaryCounts(primaryRaw)
		if err != nil {
			return CalculationCompleteMsg{Err: err}
		}

		result, err := calculation.Calculate(cfg, domain.CalculateRequest{
			RegionID: regionID,
			StatusID: statusID,
			Primary:  primary,
		})
		if err != nil {
			return CalculationCompleteMsg{Err: err}
		}

		set, err := compare.Compare(result, compare.Options{})
		if err != nil {
			return CalculationCompleteMsg{Result: result, Err: err}
		}
		return CalculationCompleteMsg{Result: result, Comparison: set}
	}
}

// parsePrimaryCounts turns "serviceId=count,serviceId=count" into a
// domain.ServiceCounts, matching the calculate subcommand's flag format.
func parsePrimaryCounts(raw string) (domain.ServiceCounts, error) {
	counts := domain.ServiceCounts{}
	if raw == "" {
		return counts, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid service count %q, expected serviceId=count", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid count in %q: %w", pair, err)
		}
		counts[strings.TrimSpace(parts[0])] = n
	}
	return counts, nil
}

// buildResultRows turns a comparison set into table rows in rank order,
// pulling premium and fund-offset detail from the underlying engine result.
func buildResultRows(set *compare.ComparisonSet, engineResult domain.EngineResult) []table.Row {
	if set == nil {
		return nil
	}
	byPlan := make(map[string]domain.PlanResult, len(engineResult.Results))
	for _, r := range engineResult.Results {
		byPlan[r.PlanID] = r
	}

	rows := make([]table.Row, 0, len(set.Ranks))
	for _, r := range set.Ranks {
		delta := "$" + r.DeltaFromCheapest.StringFixed(2)
		if r.Position == 1 {
			delta = "-"
		}
		plan := byPlan[r.PlanID]
		rows = append(rows, table.Row{
			r.PlanID,
			"$" + r.TotalAnnualCost.StringFixed(2),
			delta,
			"$" + plan.AnnualPremiumAfterAdjustment.StringFixed(2),
			"$" + plan.TotalFundAmountOffset.StringFixed(2),
		})
	}
	return rows
}

// fsaeCmd estimates a contribution from the FSAE form state, sized against
// the raw expenses of the cheapest plan in the last comparison (zero when
// no calculation has completed yet).
func (m Model) fsaeCmd(accountTypeID string, income decimal.Decimal) tea.Cmd {
	cfg := m.config
	cost := decimal.Zero
	if m.comparison != nil && len(m.comparison.Ranks) > 0 {
		cheapestID := m.comparison.Ranks[0].PlanID
		for _, r := range m.engineResult.Results {
			if r.PlanID == cheapestID {
				cost = r.TotalRawExpenses
				break
			}
		}
	}

	return func() tea.Msg {
		result, err := calculation.CalculateFSAE(cfg, domain.FSAERequest{
			AccountTypeID:       accountTypeID,
			FilingStatusID:      "single",
			PrimaryAnnualIncome: income,
			Costs:               []decimal.Decimal{cost},
		})
		return FSAECompleteMsg{Result: result, Err: err}
	}
}
