package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/predictor"
	"github.com/yigit/hirelytics/internal/pkg/resume"
	"github.com/yigit/hirelytics/internal/pkg/skillmatch"
)

func newPredictCommand() *cobra.Command {
	var (
		data       string
		cgpa       float64
		skills     string
		internship bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the placement chance of a candidate against a local dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cgpa < 0 || cgpa > 10 {
				return fmt.Errorf("cgpa must be between 0 and 10, got %g", cgpa)
			}
			ds, _, err := loadDataset(data, "LOCAL")
			if err != nil {
				return err
			}

			prediction, err := predictor.Predict(ds, domain.CandidateProfile{
				CGPA:       cgpa,
				Internship: internship,
				Skills:     domain.SplitSkills(skills),
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), prediction)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "placement dataset (.csv or .xlsx)")
	cmd.Flags().Float64Var(&cgpa, "cgpa", 0, "candidate CGPA on a 0-10 scale")
	cmd.Flags().StringVar(&skills, "skills", "", "comma separated candidate skills")
	cmd.Flags().BoolVar(&internship, "internship", false, "candidate has completed an internship")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("cgpa")
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "analyze RESUME",
		Short: "Compare a PDF, DOCX or text resume with the skills of placed students",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			text, err := resume.ExtractText(domain.UploadedFile{FileName: filepath.Base(args[0]), Data: raw})
			if err != nil {
				return err
			}

			ds, _, err := loadDataset(data, "LOCAL")
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), skillmatch.Analyze(ds, text))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "placement dataset (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
