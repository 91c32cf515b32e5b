package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/diet"
	"github.com/Skufu/heartcheck/internal/health"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/report"
)

type assessOptions struct {
	profile    health.Profile
	gender     string
	modelPath  string
	showDiet   bool
	reportPath string
}

// NewAssessCommand creates the 'heartcheck assess' command
func NewAssessCommand() *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess heart disease risk for one person",
		Example: `  heartcheck assess --name Alice --age 45 --gender Female \
    --blood-pressure 130 --cholesterol 210 --chest-pain 2 --diet --report report.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.profile.Gender = health.Gender(opts.gender)
			return runAssess(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.profile.Name, "name", "", "name shown on the report")
	f.IntVar(&opts.profile.Age, "age", 0, "age in years (18-100)")
	f.StringVar(&opts.gender, "gender", "", "Male or Female")
	f.IntVar(&opts.profile.BloodPressure, "blood-pressure", 0, "resting blood pressure in mmHg (90-200)")
	f.IntVar(&opts.profile.Cholesterol, "cholesterol", 0, "serum cholesterol in mg/dL (100-500)")
	f.StringVar(&opts.profile.ChestPainType, "chest-pain", "0", "chest pain type: 0 none, 1 typical angina, 2 atypical angina, 3 non-anginal")
	f.StringVar(&opts.modelPath, "model", filepath.Join("models", "heart_disease_model.yaml"), "path to the classifier model")
	f.BoolVar(&opts.showDiet, "diet", false, "print the diet recommendations")
	f.StringVar(&opts.reportPath, "report", "", "write the PDF report to this path")

	return cmd
}

func runAssess(out io.Writer, opts *assessOptions) error {
	if err := opts.profile.Validate(); err != nil {
		return err
	}
	if err := opts.profile.CheckRanges(); err != nil {
		return err
	}

	svc, err := prediction.Open(opts.modelPath)
	if err != nil {
		return err
	}

	wf := assessment.New(svc, report.NewCompiler())
	if err := wf.Submit(opts.profile); err != nil {
		return err
	}

	risk := *wf.State().Risk
	verdict := color.New(color.FgGreen, color.Bold)
	if risk {
		verdict = color.New(color.FgRed, color.Bold)
	}
	verdict.Fprintln(out, risk.Verdict())
	printProfile(out, opts.profile)

	if opts.showDiet {
		if err := wf.ViewDiet(); err != nil {
			return err
		}
		plan, err := wf.DietPlan()
		if err != nil {
			return err
		}
		printPlan(out, plan)
	}

	if opts.reportPath != "" {
		rep, err := wf.Download()
		if err != nil {
			return fmt.Errorf("compile report: %w", err)
		}
		if err := os.WriteFile(opts.reportPath, rep.Data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "\nReport written to %s\n", opts.reportPath)
	}

	return nil
}

func printProfile(out io.Writer, p health.Profile) {
	fmt.Fprintf(out, "\n  Name:            %s\n", p.Name)
	fmt.Fprintf(out, "  Age:             %d\n", p.Age)
	fmt.Fprintf(out, "  Gender:          %s\n", p.Gender)
	fmt.Fprintf(out, "  Blood Pressure:  %d mmHg\n", p.BloodPressure)
	fmt.Fprintf(out, "  Cholesterol:     %d mg/dL\n", p.Cholesterol)
	fmt.Fprintf(out, "  Chest Pain Type: %s\n", p.ChestPainLabel())
}

func printPlan(out io.Writer, plan diet.Plan) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(out)
	cyan.Fprintln(out, plan.Title)
	for _, section := range plan.Sections {
		fmt.Fprintf(out, "\n%s\n", section.Name)
		for _, item := range section.Items {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}
}
