package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projectcostai/projectcostai/pkg/client"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run cost, timeline and risk estimates",
	}

	cmd.AddCommand(newPredictRunCmd())
	cmd.AddCommand(newAnalysisCmd("full", "Run every analysis and store one prediction"))
	cmd.AddCommand(newAnalysisCmd("risk", "Score project risk"))
	cmd.AddCommand(newAnalysisCmd("cost", "Break the cost down by category"))
	cmd.AddCommand(newAnalysisCmd("timeline", "Split the timeline into phases"))
	cmd.AddCommand(newAnalysisCmd("recommend", "Get recommendations"))

	return cmd
}

func newPredictRunCmd() *cobra.Command {
	var in client.ProjectInput
	var meta []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Predict cost and timeline from hours, tasks, budget and priority",
		Example: `  costai predict run --hours 150 --tasks 25 --budget 5000 --priority Medium
  costai predict run --hours 40 --tasks 6 --budget 900 --priority Low --meta client=acme`,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseMeta(meta)
			if err != nil {
				return err
			}
			in.Extra = extra

			res, err := apiClient.Predictions().Predict(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(res)
			}

			fmt.Printf("Prediction: %s\n", res.PredictionID)
			fmt.Printf("Status:     %s\n", formatStatus(res.Status))
			if res.PredictedCost == nil {
				fmt.Println("The estimator is unavailable; the inputs were saved without an estimate.")
				return nil
			}
			fmt.Printf("Cost:       %s\n", formatMoney(*res.PredictedCost))
			fmt.Printf("Timeline:   %s\n", formatDays(*res.EstimatedTimelineDays))
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.HoursSpent, "hours", 0, "hours spent or planned")
	cmd.Flags().Float64Var(&in.TaskCount, "tasks", 0, "number of tasks")
	cmd.Flags().Float64Var(&in.Budget, "budget", 0, "budget")
	cmd.Flags().StringVar(&in.Priority, "priority", "Medium", "High, Medium or Low")
	cmd.Flags().StringVar(&in.Title, "title", "", "prediction title")
	cmd.Flags().StringVar(&in.ProjectType, "type", "", "Software, Construction, Marketing or Other")
	cmd.Flags().IntVar(&in.TeamMembers, "team", 0, "team members")
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "extra key=value stored with the prediction (repeatable)")
	_ = cmd.MarkFlagRequired("hours")
	_ = cmd.MarkFlagRequired("tasks")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func parseMeta(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --meta %q, want key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func newAnalysisCmd(kind, short string) *cobra.Command {
	var p client.ProjectParams

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			preds := apiClient.Predictions()

			var (
				id   string
				data interface{}
				out  client.Outputs
			)
			switch kind {
			case "risk":
				res, err := preds.Risk(ctx, p)
				if err != nil {
					return fmt.Errorf("risk analysis failed: %w", err)
				}
				id, data, out.Risk = res.PredictionID, res.Data, &res.Data
			case "cost":
				res, err := preds.Cost(ctx, p)
				if err != nil {
					return fmt.Errorf("cost breakdown failed: %w", err)
				}
				id, data, out.Cost = res.PredictionID, res.Data, &res.Data
			case "timeline":
				res, err := preds.Timeline(ctx, p)
				if err != nil {
					return fmt.Errorf("timeline breakdown failed: %w", err)
				}
				id, data, out.Timeline = res.PredictionID, res.Data, &res.Data
			case "recommend":
				res, err := preds.Recommendations(ctx, p)
				if err != nil {
					return fmt.Errorf("recommendations failed: %w", err)
				}
				id, data, out.Recommendations = res.PredictionID, res.Data, res.Data
			default:
				res, err := preds.Full(ctx, p)
				if err != nil {
					return fmt.Errorf("full analysis failed: %w", err)
				}
				id, data, out = res.PredictionID, res.Data, res.Data
			}

			if getOutputFormat() != "table" {
				return printOutput(map[string]interface{}{"predictionId": id, "data": data})
			}
			fmt.Printf("Prediction: %s\n", id)
			printOutputs(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "prediction title")
	cmd.Flags().StringVar(&p.ProjectType, "type", "", "Software, Construction, Marketing or Other")
	cmd.Flags().IntVar(&p.TeamSize, "team", 0, "team size")
	cmd.Flags().Float64Var(&p.EstimatedHours, "hours", 0, "estimated hours")
	cmd.Flags().StringVar(&p.ComplexityLevel, "complexity", "", "Low, Medium, High or Very High")
	cmd.Flags().StringVar(&p.ExperienceLevel, "experience", "", "team experience level")
	cmd.Flags().IntVar(&p.NumberOfFeatures, "features", 0, "number of features")
	cmd.Flags().StringSliceVar(&p.TechStack, "stack", nil, "technologies, comma separated")
	cmd.Flags().Float64Var(&p.Budget, "budget", 0, "budget")
	cmd.Flags().StringVar(&p.Priority, "priority", "", "High, Medium or Low")

	return cmd
}

func printOutputs(out client.Outputs) {
	if out.Risk != nil {
		fmt.Printf("Risk:       %s (score %d)\n", formatRisk(out.Risk.Level), out.Risk.RiskScore)
		for _, f := range out.Risk.Factors {
			fmt.Printf("  - %s\n", f)
		}
	}
	if out.Cost != nil {
		fmt.Printf("Cost:       %s %s (confidence %.0f%%)\n", formatMoney(out.Cost.EstimatedCost), out.Cost.Currency, out.Cost.Confidence)
		if len(out.Cost.Breakdown) > 0 {
			t := NewTable("CATEGORY", "AMOUNT")
			for _, k := range []string{"development", "infrastructure", "design", "marketing"} {
				if v, ok := out.Cost.Breakdown[k]; ok {
					t.AddRow(k, formatMoney(v))
				}
			}
			t.Render()
		}
	}
	if out.Timeline != nil {
		fmt.Printf("Timeline:   %s\n", formatDays(out.Timeline.EstimatedDurationDays))
		if len(out.Timeline.Phases) > 0 {
			t := NewTable("PHASE", "WEEKS", "DURATION")
			for _, ph := range out.Timeline.Phases {
				t.AddRow(ph.Name, fmt.Sprintf("%d", ph.Weeks), ph.Duration)
			}
			t.Render()
		}
	}
	if len(out.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, r := range out.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}
