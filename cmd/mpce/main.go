package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wattjam/mpce/internal/breakeven"
	"github.com/wattjam/mpce/internal/calculation"
	"github.com/wattjam/mpce/internal/compare"
	"github.com/wattjam/mpce/internal/config"
	"github.com/wattjam/mpce/internal/domain"
	"github.com/wattjam/mpce/internal/output"
	"github.com/wattjam/mpce/internal/transform"
	"github.com/wattjam/mpce/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "mpce %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "mpce",
	Short: "Medical plan cost estimator",
	Long:  "Estimates out-of-pocket medical costs across candidate insurance plans and sizes pre-tax account contributions.",
}

// parseServiceCounts turns "serviceId=count,serviceId=count" into a
// domain.ServiceCounts.
func parseServiceCounts(raw string) (domain.ServiceCounts, error) {
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

var calculateCmd = &cobra.Command{
	Use:   "calculate [config-file]",
	Short: "Estimate costs for every plan in a region",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.NewLoader().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		regionID, _ := cmd.Flags().GetString("region")
		statusID, _ := cmd.Flags().GetString("status")
		primaryRaw, _ := cmd.Flags().GetString("primary")
		spouseRaw, _ := cmd.Flags().GetString("spouse")
		hasSpouse, _ := cmd.Flags().GetBool("has-spouse")
		numChildren, _ := cmd.Flags().GetInt("children")
		outputFormat, _ := cmd.Flags().GetString("format")

		primary, err := parseServiceCounts(primaryRaw)
		if err != nil {
			log.Fatal(err)
		}
		spouse, err := parseServiceCounts(spouseRaw)
		if err != nil {
			log.Fatal(err)
		}

		children := make([]domain.ServiceCounts, numChildren)
		for i := range children {
			children[i] = domain.ServiceCounts{}
		}

		result, err := calculation.Calculate(cfg, domain.CalculateRequest{
			RegionID:  regionID,
			StatusID:  statusID,
			Primary:   primary,
			Spouse:    spouse,
			HasSpouse: hasSpouse,
			Children:  children,
		})
		if err != nil {
			log.Fatal(err)
		}

		writeEngineResult(result, outputFormat)
	},
}

func writeEngineResult(result domain.EngineResult, format string) {
	switch format {
	case "json":
		data, err := output.WritePlanResultsJSON(result)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(data))
	case "csv":
		data, err := output.WritePlanResultsCSV(result)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
	default:
		fmt.Print(output.WritePlanResultsConsole(result))
	}
}

var compareCmd = &cobra.Command{
	Use:   "compare [config-file]",
	Short: "Rank plans in a region by annual cost",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.NewLoader().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		regionID, _ := cmd.Flags().GetString("region")
		statusID, _ := cmd.Flags().GetString("status")
		primaryRaw, _ := cmd.Flags().GetString("primary")
		basePlan, _ := cmd.Flags().GetString("base-plan")

		primary, err := parseServiceCounts(primaryRaw)
		if err != nil {
			log.Fatal(err)
		}

		result, err := calculation.Calculate(cfg, domain.CalculateRequest{
			RegionID: regionID,
			StatusID: statusID,
			Primary:  primary,
		})
		if err != nil {
			log.Fatal(err)
		}

		set, err := compare.Compare(result, compare.Options{BasePlanID: basePlan})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(output.WriteComparisonConsole(set))
	},
}

var fsaCmd = &cobra.Command{
	Use:   "fsa [config-file]",
	Short: "Estimate a pre-tax account contribution and its tax savings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.NewLoader().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		accountType, _ := cmd.Flags().GetString("account-type")
		filingStatus, _ := cmd.Flags().GetString("filing-status")
		dependents, _ := cmd.Flags().GetInt("dependents")
		income, _ := cmd.Flags().GetFloat64("income")
		spouseIncome, _ := cmd.Flags().GetFloat64("spouse-income")
		rollover, _ := cmd.Flags().GetFloat64("rollover")
		cost, _ := cmd.Flags().GetFloat64("cost")
		outputFormat, _ := cmd.Flags().GetString("format")

		result, err := calculation.CalculateFSAE(cfg, domain.FSAERequest{
			AccountTypeID:       accountType,
			FilingStatusID:      filingStatus,
			NumberOfDependents:  dependents,
			PrimaryAnnualIncome: decimal.NewFromFloat(income),
			SpouseAnnualIncome:  decimal.NewFromFloat(spouseIncome),
			RolloverAmount:      decimal.NewFromFloat(rollover),
			Costs:               []decimal.Decimal{decimal.NewFromFloat(cost)},
		})
		if err != nil {
			log.Fatal(err)
		}

		if outputFormat == "json" {
			data, err := output.WriteFSAEResultJSON(result)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(string(data))
			return
		}
		fmt.Print(output.WriteFSAEResultConsole(result))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file without calculating anything",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := config.NewLoader().LoadFromFile(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("configuration is valid")
	},
}

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [config-file] [plan-a] [plan-b]",
	Short: "Find the utilization level at which two plans cost the same",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.NewLoader().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		regionID, _ := cmd.Flags().GetString("region")
		statusID, _ := cmd.Flags().GetString("status")
		templateName, _ := cmd.Flags().GetString("template")

		counts := domain.ServiceCounts{"routinePhysical18Plus": 1}
		if templateName != "" {
			if tmpl, ok := transform.NewTemplateRegistry().Get(templateName); ok {
				counts = tmpl
			}
		}

		result, err := breakeven.FindUtilizationBreakEven(context.Background(), breakeven.Request{
			Config:   cfg,
			PlanA:    args[1],
			PlanB:    args[2],
			RegionID: regionID,
			StatusID: statusID,
			Base: domain.CalculateRequest{
				Primary: counts,
			},
			MaxScale: decimal.NewFromInt(20),
		})
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("break-even utilization scale: %s (plan %s = $%s, plan %s = $%s, %d iterations)\n",
			result.Scale.StringFixed(3), args[1], result.CostA.StringFixed(2), args[2], result.CostB.StringFixed(2), result.Iterations)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse [config-file]",
	Short: "Interactively browse plan results and FSA/HSA estimates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := tea.NewProgram(tui.NewModel(args[0]))
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	calculateCmd.Flags().String("region", "", "region id")
	calculateCmd.Flags().String("status", "", "employment status id")
	calculateCmd.Flags().String("primary", "", "primary member service counts, serviceId=count,...")
	calculateCmd.Flags().String("spouse", "", "spouse member service counts, serviceId=count,...")
	calculateCmd.Flags().Bool("has-spouse", false, "household includes a spouse")
	calculateCmd.Flags().Int("children", 0, "number of children in the household")
	calculateCmd.Flags().String("format", "console", "output format: console, json, csv")

	compareCmd.Flags().String("region", "", "region id")
	compareCmd.Flags().String("status", "", "employment status id")
	compareCmd.Flags().String("primary", "", "primary member service counts, serviceId=count,...")
	compareCmd.Flags().String("base-plan", "", "plan id every other plan is compared against")

	fsaCmd.Flags().String("account-type", "", "account type id (defaults to the first configured)")
	fsaCmd.Flags().String("filing-status", "single", "filing status id")
	fsaCmd.Flags().Int("dependents", 0, "number of dependents")
	fsaCmd.Flags().Float64("income", 0, "primary annual income")
	fsaCmd.Flags().Float64("spouse-income", 0, "spouse annual income")
	fsaCmd.Flags().Float64("rollover", 0, "prior-year rollover amount")
	fsaCmd.Flags().Float64("cost", 0, "expected annual medical cost")
	fsaCmd.Flags().String("format", "console", "output format: console, json")

	breakEvenCmd.Flags().String("region", "", "region id")
	breakEvenCmd.Flags().String("status", "", "employment status id")
	breakEvenCmd.Flags().String("template", "", "utilization template name to scale from")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(fsaCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(breakEvenCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
