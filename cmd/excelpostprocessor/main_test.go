package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const rules = `<workbook>
    <name>test_data.xlsx</name>
    <sheet>
        <name>Patients</name>
        <source_column>
            <name>Report</name>
            <extract>
                <pattern>Date of Exam:\s?(\d{1,2}/\d{1,2}/\d{4})</pattern>
                <new_column>Date of Exam</new_column>
            </extract>
        </source_column>
    </sheet>
    <sheet>
        <name>Radiology</name>
        <source_column>
            <name>Impression</name>
            <extract>
                <pattern>(\d+) mm</pattern>
                <new_column>Size</new_column>
            </extract>
        </source_column>
    </sheet>
</workbook>`

func setupDir(t *testing.T, doc ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Patients"))
	require.NoError(t, f.SetCellValue("Patients", "A1", "Report"))
	require.NoError(t, f.SetCellValue("Patients", "A2", "Date of Exam: 3/4/2022"))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "test_data.xlsx")))

	content := rules
	if len(doc) > 0 {
		content = doc[0]
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "excel_postprocessor.xml"), []byte(content), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNoArgsPrintsUsage(t *testing.T) {
	stdout, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "excel_postprocessor.xml")
}

func TestRunCommand(t *testing.T) {
	dir := setupDir(t)

	stdout, stderr, err := execute(t, "run", "--summary")
	require.Error(t, err, "missing Radiology sheet makes the run incomplete")
	assert.ErrorIs(t, err, errPartialFailure)

	assert.Contains(t, stdout, "Created file 'test_data_Patients.xlsx'.")
	assert.Contains(t, stdout, "skipped")
	assert.Contains(t, stderr, "Worksheet Radiology not found; skipping.")
	assert.FileExists(t, filepath.Join(dir, "test_data_Patients.xlsx"))
}

func TestRootWithConfigRuns(t *testing.T) {
	dir := setupDir(t)
	config := filepath.Join(dir, "excel_postprocessor.xml")

	stdout, _, err := execute(t, "--config", config, "--sheet", "Patients")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "Created file 'test_data_Patients.xlsx'.")
	assert.FileExists(t, filepath.Join(dir, "test_data_Patients.xlsx"))
}

func TestRunCommandSelectedSheet(t *testing.T) {
	setupDir(t)

	stdout, _, err := execute(t, "run", "--sheet", "Patients", "--output-dir", "out")
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join("out", "test_data_Patients.xlsx"))
}

func TestRunCommandMissingConfig(t *testing.T) {
	setupDir(t)

	_, _, err := execute(t, "run", "-c", "absent.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to find configuration file 'absent.xml'")
}

func TestValidateCommand(t *testing.T) {
	setupDir(t)

	stdout, _, err := execute(t, "validate", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test_data.xlsx")
	assert.Contains(t, stdout, "Patients")
	assert.Contains(t, stdout, "Date of Exam")
	assert.Contains(t, stdout, "extract")
}

func TestValidateCommandMalformed(t *testing.T) {
	setupDir(t, `<workbook><name>test_data.xlsx</name><sheet><name>Patients</name></sheet></workbook>`)

	_, _, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to find 'source_column' in sheet 'Patients'")
}
