// Package seed creates demo data for local development.
package seed

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/domain"
)

const demoRows = 60

var (
	demoBranches  = []string{"CSE", "ECE", "IT", "MECH"}
	demoYears     = []string{"2022", "2023", "2024"}
	demoCompanies = []string{"Infosys", "TCS", "Wipro", "Accenture", "Zoho", "Amazon"}
	demoSkills    = []string{"Python", "Java", "SQL", "Excel", "C++", "Machine Learning", "AutoCAD", "React", "Communication"}
)

// DemoCSV returns a deterministic placement table for a demo college.
func DemoCSV() ([]byte, error) {
	rng := rand.New(rand.NewPCG(42, 2024))

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.RequiredColumns); err != nil {
		return nil, err
	}

	for i := 0; i < demoRows; i++ {
		cgpa := 5.5 + rng.Float64()*4.5
		internship := rng.IntN(2) == 1

		n := 1 + rng.IntN(3)
		skills := make([]string, 0, n)
		for _, idx := range rng.Perm(len(demoSkills))[:n] {
			skills = append(skills, demoSkills[idx])
		}

		score := (cgpa-5.5)/4.5 + 0.15*float64(len(skills))
		if internship {
			score += 0.3
		}

		pkg, company := 0.0, ""
		if score+rng.Float64()*0.4 > 0.9 {
			pkg = 3 + (cgpa-5.5)*2 + rng.Float64()*4
			company = demoCompanies[rng.IntN(len(demoCompanies))]
		}

		row := []string{
			strconv.FormatFloat(cgpa, 'f', 2, 64),
			strconv.FormatFloat(pkg, 'f', 1, 64),
			company,
			demoBranches[rng.IntN(len(demoBranches))],
			yesNo(internship),
			demoYears[rng.IntN(len(demoYears))],
			strings.Join(skills, ", "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// DemoDataset uploads the demo table for code unless the college already
// has a dataset. An empty code disables seeding.
func DemoDataset(ctx context.Context, datasets *services.DatasetService, code string, lgr zerolog.Logger) error {
	if code == "" {
		return nil
	}

	exists, err := datasets.Exists(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check demo dataset: %w", err)
	}
	if exists {
		lgr.Info().Str("college", code).Msg("Demo dataset already present, skipping seed")
		return nil
	}

	data, err := DemoCSV()
	if err != nil {
		return fmt.Errorf("failed to generate demo dataset: %w", err)
	}

	meta, err := datasets.Upload(ctx, "seed", code, domain.UploadedFile{
		FileName:    "demo.csv",
		ContentType: "text/csv",
		Data:        data,
	}, "")
	if err != nil {
		return fmt.Errorf("failed to upload demo dataset: %w", err)
	}

	lgr.Info().Str("college", code).Int("rows", meta.Rows).Msg("Demo dataset seeded")
	return nil
}
