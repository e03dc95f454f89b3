package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/dataset"
	"github.com/yigit/hirelytics/internal/pkg/logger"
)

// loadDataset reads and normalizes a local CSV or XLSX file.
func loadDataset(path, college string) (*domain.Dataset, domain.SourceFormat, error) {
	format, err := dataset.FormatFromFilename(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}

	ds, err := dataset.Parse(college, format, data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	lgr := logger.Component("cli")
	lgr.Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("rows", ds.Len()).
		Msg("Dataset loaded")
	return ds, format, nil
}

func newTemplateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the empty dataset template workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := dataset.Template()
			if err != nil {
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "placement_template.xlsx", "destination file")
	return cmd
}

type validateReport struct {
	File    string              `json:"file"`
	Format  domain.SourceFormat `json:"format"`
	Rows    int                 `json:"rows"`
	Placed  int                 `json:"placed"`
	Columns []string            `json:"columns"`
}

func newValidateCommand() *cobra.Command {
	var college string

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a CSV or XLSX file is a valid placement dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, format, err := loadDataset(args[0], college)
			if err != nil {
				return err
			}

			report := validateReport{
				File:    args[0],
				Format:  format,
				Rows:    ds.Len(),
				Columns: domain.RequiredColumns,
			}
			for _, r := range ds.Records {
				if r.Placed() {
					report.Placed++
				}
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&college, "college", "c", "LOCAL", "college code recorded on the dataset")
	return cmd
}

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert SOURCE DEST",
		Short: "Normalize a dataset and write it in the format given by DEST's extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := dataset.FormatFromFilename(args[1])
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(args[0], "LOCAL")
			if err != nil {
				return err
			}

			data, err := dataset.Encode(target, ds)
			if err != nil {
				return err
			}
			if err := writeFile(args[1], data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", ds.Len(), args[1])
			return nil
		},
	}
	return cmd
}
