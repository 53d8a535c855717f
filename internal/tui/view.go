package tui

import (
	"fmt"
	"strings"
)

// View satisfies tea.Model.
func (m Model) View() string {
	var body string
	switch m.scene {
	case SceneHome:
		body = m.viewHome()
	case SceneResults:
		body = m.viewResults()
	case SceneFSAE:
		body = m.viewFSAE()
	case SceneHelp:
		body = m.viewHelp()
	}

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render("MPCE / FSAE plan browser")+"  "+subtitleStyle.Render("scene: "+m.scene.String()))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, body)
	if m.err != nil {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, errorStyle.Render("error: "+m.err.Error()))
	}
	if m.loading {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, subtitleStyle.Render("working..."))
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, renderHelpBar("tab", "next field", "enter", "submit", "esc", "home", "?", "help", "ctrl+c", "quit"))
	return b.String()
}

func (m Model) viewHome() string {
	var b strings.Builder
	status := subtitleStyle.Render("config: " + m.configPath)
	if m.config != nil {
		status = successStyle.Render("config loaded: " + m.configPath)
	}
	fmt.Fprintln(&b, status)
	fmt.Fprintln(&b)

	labels := [fieldCount]string{
		fieldRegion:  "Region",
		fieldStatus:  "Employment status",
		fieldPrimary: "Primary service counts",
	}
	for i, ti := range m.inputs {
		label := fieldLabelStyle.Render(labels[i] + ":")
		if i == m.focusIndex {
			label = activeFieldStyle.Render(labels[i] + ":")
		}
		fmt.Fprintf(&b, "%-26s %s\n", label, ti.View())
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, helpDescStyle.Render("Press enter on any field to calculate and rank every plan offered in the region."))
	return borderStyle.Render(b.String())
}

func (m Model) viewResults() string {
	if m.comparison == nil {
		return helpDescStyle.Render("No results yet. Go back home and run a calculation.")
	}
	var b strings.Builder
	fmt.Fprintln(&b, subtitleStyle.Render(fmt.Sprintf("%d plan(s) ranked by annual cost (elapsed %.3fms)", len(m.comparison.Ranks), m.engineResult.ElapsedMsec)))
	fmt.Fprintln(&b)
	fmt.Fprint(&b, m.resultsTable.View())
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, helpDescStyle.Render("Press f to size an FSA/HSA contribution against the cheapest plan's raw expenses."))
	return b.String()
}

func (m Model) viewFSAE() string {
	var b strings.Builder
	if m.fsaeResult.AccountTypeID == "" {
		fmt.Fprintln(&b, helpDescStyle.Render("Press enter to estimate a contribution using a $60,000 assumed income."))
		return b.String()
	}
	r := m.fsaeResult
	fmt.Fprintf(&b, "Account type:                %s\n", r.AccountTypeDescription)
	fmt.Fprintf(&b, "Total expected costs:        $%s\n", r.TotalCosts.StringFixed(2))
	fmt.Fprintf(&b, "Suggested contribution:      $%s\n", r.SuggestedContribution.StringFixed(2))
	fmt.Fprintf(&b, "Employer match:              $%s\n", r.EmployerMatchingContribution.StringFixed(2))
	fmt.Fprintf(&b, "Federal income tax savings:  $%s\n", r.FederalIncomeTaxSavings.StringFixed(2))
	fmt.Fprintf(&b, "FICA tax savings:            $%s\n", r.FicaTaxSavings.StringFixed(2))
	fmt.Fprintf(&b, "Total tax savings:           $%s\n", r.TotalTaxSavings.StringFixed(2))
	return borderStyle.Render(b.String())
}

func (m Model) viewHelp() string {
	var b strings.Builder
	fmt.Fprintln(&b, "Keys:")
	fmt.Fprintln(&b, helpKeyStyle.Render("  tab/shift+tab")+"  "+helpDescStyle.Render("move between form fields (home scene)"))
	fmt.Fprintln(&b, helpKeyStyle.Render("  enter")+"           "+helpDescStyle.Render("submit the current scene's form"))
	fmt.Fprintln(&b, helpKeyStyle.Render("  f")+"               "+helpDescStyle.Render("jump to the FSA/HSA scene from results"))
	fmt.Fprintln(&b, helpKeyStyle.Render("  esc")+"             "+helpDescStyle.Render("return to the home scene"))
	fmt.Fprintln(&b, helpKeyStyle.Render("  ctrl+c")+"          "+helpDescStyle.Render("quit"))
	return b.String()
}
