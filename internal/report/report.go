package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/Skufu/heartcheck/internal/diet"
	"github.com/Skufu/heartcheck/internal/health"
)

const (
	Filename    = "heart_health_report.pdf"
	ContentType = "application/pdf"

	disclaimer = "This report is generated from a statistical model and is not a medical diagnosis. " +
		"Please consult a qualified healthcare professional about your heart health."
)

// Report is a compiled, immutable document ready for download.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Compiler renders assessment results as PDF.
type Compiler struct {
	now func() time.Time
}

func NewCompiler() *Compiler {
	return &Compiler{now: time.Now}
}

// Compile builds the report for a completed assessment. Every input is required; a
// missing or invalid one fails with health.ErrPrecondition and no document.
func (c *Compiler) Compile(profile *health.Profile, risk *health.RiskFlag, plan *diet.Plan) (Report, error) {
	switch {
	case profile == nil:
		return Report{}, fmt.Errorf("%w: report needs a profile", health.ErrPrecondition)
	case risk == nil:
		return Report{}, fmt.Errorf("%w: report needs a prediction", health.ErrPrecondition)
	case plan == nil || !plan.Valid():
		return Report{}, fmt.Errorf("%w: report needs a diet plan", health.ErrPrecondition)
	}
	if err := profile.Validate(); err != nil {
		return Report{}, fmt.Errorf("%w: %v", health.ErrPrecondition, err)
	}
	if err := checkEncodable(profile, plan); err != nil {
		return Report{}, err
	}

	now := time.Now
	if c != nil && c.now != nil {
		now = c.now
	}
	generated := now()

	pdf := fpdf.New("P", "mm", "A4", "")
	// Uncompressed content streams keep the report text searchable.
	pdf.SetCompression(false)
	pdf.SetTitle("Heart Health Report", true)
	pdf.SetCreator("heartcheck", true)
	pdf.SetCreationDate(generated)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Heart Health Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	heading(pdf, "Your Information")
	fields := [][2]string{
		{"Name", profile.Name},
		{"Age", fmt.Sprintf("%d", profile.Age)},
		{"Gender", string(profile.Gender)},
		{"Blood Pressure", fmt.Sprintf("%d mmHg", profile.BloodPressure)},
		{"Cholesterol", fmt.Sprintf("%d mg/dL", profile.Cholesterol)},
		{"Chest Pain Type", profile.ChestPainLabel()},
	}
	for _, f := range fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, f[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(f[1]), "", "L", false)
	}
	pdf.Ln(4)

	heading(pdf, "Assessment Result")
	pdf.SetFont("Helvetica", "B", 14)
	if *risk {
		pdf.SetTextColor(200, 0, 0)
	} else {
		pdf.SetTextColor(0, 150, 0)
	}
	pdf.CellFormat(0, 10, risk.Verdict(), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	heading(pdf, plan.Title)
	for _, section := range plan.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(section.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range section.Items {
			pdf.CellFormat(6, 6, "-", "", 0, "R", false, 0, "")
			pdf.MultiCell(0, 6, tr(item), "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 5, disclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Report{}, fmt.Errorf("render report: %w", err)
	}

	return Report{
		Filename:    Filename,
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}

// checkEncodable rejects text the report's Windows-1252 core fonts cannot show.
// The PDF translator would otherwise replace those runes with dots.
func checkEncodable(profile *health.Profile, plan *diet.Plan) error {
	enc := charmap.Windows1252.NewEncoder()
	check := func(field, text string) error {
		if _, err := enc.String(text); err != nil {
			return fmt.Errorf("%w: %s %q has characters the report cannot print", health.ErrPrecondition, field, text)
		}
		return nil
	}

	if err := check("name", profile.Name); err != nil {
		return err
	}
	for _, section := range plan.Sections {
		if err := check("diet section", section.Name); err != nil {
			return err
		}
		for _, item := range section.Items {
			if err := check("diet item", item); err != nil {
				return err
			}
		}
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, text, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}
