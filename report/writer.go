// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package report

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/ragline/ingest"
	"github.com/poiesic/ragline/query"
	"github.com/xuri/excelize/v2"
)

const (
	runsSheet       = "runs"
	answersSheet    = "answers"
	referencesSheet = "references"
	weightsSheet    = "weights"
)

var (
	runsHeader = []interface{}{
		"Run ID", "Dataset", "Folder", "Started", "Finished",
		"Processed", "Uploaded", "Skipped", "Replaced", "Upload Failed",
		"Parsed OK", "Parse Failed", "Indeterminate", "Succeeded",
	}
	answersHeader = []interface{}{
		"Run ID", "Query", "Answer", "References",
	}
	referencesHeader = []interface{}{
		"Run ID", "Query", "Document", "Similarity", "Content",
	}
	weightsHeader = []interface{}{
		"Run ID", "Vector Weight", "Score", "Chunks", "Best",
	}
)

// Writer appends run results to an Excel workbook, creating it on first
// use. One workbook accumulates the history of every run against it.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a writer for the workbook at path. A nil logger uses
// slog.Default().
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{path: path, logger: logger}, nil
}

// AppendRun adds one row to the runs sheet summarizing a pipeline run.
func (w *Writer) AppendRun(report *ingest.Report) error {
	if report == nil {
		return ErrReportRequired
	}
	return w.append(runsSheet, runsHeader, []interface{}{
		report.RunID,
		report.Dataset,
		report.Folder,
		report.Started.Format(time.RFC3339),
		report.Finished.Format(time.RFC3339),
		report.Stats.Processed,
		report.Stats.Uploaded,
		report.Stats.Skipped,
		report.Stats.Replaced,
		report.Stats.Failed,
		report.ParsedOK,
		report.ParsedFailed,
		report.Indeterminate,
		report.Succeeded(),
	})
}

// AppendAnswer adds one row to the answers sheet and one row per cited
// chunk to the references sheet. In the answers row the references
// collapse to document names; a name appears once no matter how many
// chunks of the document were cited.
func (w *Writer) AppendAnswer(runID, question string, answer *query.Answer) error {
	if answer == nil {
		return ErrReportRequired
	}

	seen := make(map[string]bool)
	var names []string
	for _, ref := range answer.References {
		if ref.DocumentName == "" || seen[ref.DocumentName] {
			continue
		}
		seen[ref.DocumentName] = true
		names = append(names, ref.DocumentName)
	}

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ensureSheet(f, answersSheet, answersHeader); err != nil {
		return err
	}
	row := []interface{}{runID, question, answer.Text, strings.Join(names, "; ")}
	if err := appendRow(f, answersSheet, row); err != nil {
		return err
	}

	if len(answer.References) > 0 {
		if err := ensureSheet(f, referencesSheet, referencesHeader); err != nil {
			return err
		}
		for _, ref := range answer.References {
			refRow := []interface{}{
				runID, question, ref.DocumentName, ref.Similarity, ref.Content,
			}
			if err := appendRow(f, referencesSheet, refRow); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(w.path)
}

// AppendWeights adds one row per grid-search result to the weights sheet.
func (w *Writer) AppendWeights(runID string, results []query.WeightResult, best query.WeightResult) error {
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ensureSheet(f, weightsSheet, weightsHeader); err != nil {
		return err
	}
	for _, result := range results {
		row := []interface{}{
			runID, result.Weight, result.Score, result.Chunks,
			result.Weight == best.Weight,
		}
		if err := appendRow(f, weightsSheet, row); err != nil {
			return err
		}
	}
	return f.SaveAs(w.path)
}

func (w *Writer) append(sheet string, header, row []interface{}) error {
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ensureSheet(f, sheet, header); err != nil {
		return err
	}
	if err := appendRow(f, sheet, row); err != nil {
		return err
	}
	return f.SaveAs(w.path)
}

// open loads the workbook, creating a fresh one when the file does not
// exist yet.
func (w *Writer) open() (*excelize.File, error) {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", w.path, err)
	}
	return f, nil
}

// ensureSheet creates sheet with its header row if it is missing. The
// default Sheet1 of a fresh workbook is replaced by the first real sheet.
func ensureSheet(f *excelize.File, sheet string, header []interface{}) error {
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if index >= 0 {
		return nil
	}

	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	if defaultIndex, err := f.GetSheetIndex("Sheet1"); err == nil && defaultIndex >= 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	return nil
}

func appendRow(f *excelize.File, sheet string, row []interface{}) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	cell := fmt.Sprintf("A%d", len(rows)+1)
	return f.SetSheetRow(sheet, cell, &row)
}
