package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sales_call_app_go/db"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testCustomersCSV = "id,name,business,phone,email,potential,status,last_contact,call_count,rm_code\n" +
	"1,Sok Dara,Sok Dara Grocery,010 123 456,sokdara@email.com,H,New Lead,2023-01-15,0,001\n" +
	"2,Lim Srey,Srey Fashion,011 234 567,limsrey@email.com,M,Pending,2023-02-20,2,001\n" +
	"3,Chen Lao,Lao Construction,012 345 678,chenlao@email.com,L,Completed,2023-03-10,1,002\n"

const testCallLogCSV = "customer_id,customer,date,outcome,notes\n" +
	"1,Sok Dara,2024-05-01 09:30,Completed,Interested in a loan\n" +
	"3,Chen Lao,2024-05-01 10:00,Missed,\n"

// setupEnv points the configuration at a temp data directory
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"), []byte(testCustomersCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "call_log.csv"), []byte(testCallLogCSV), 0644))

	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("SESSION_SECRET", "an-adequately-long-secret-for-testing-purposes")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("CUSTOMERS_FILE", "customers.csv")
	t.Setenv("CALL_LOG_FILE", "call_log.csv")
	t.Setenv("DB_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("R2_ACCOUNT_ID", "")
	t.Setenv("R2_BUCKET_NAME", "")
	return dir
}

// run executes callctl with fresh flag values and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	noColor = true
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Name == "no-color" {
			return
		}
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestCustomersCommand(t *testing.T) {
	setupEnv(t)

	t.Run("Lists the RM's customers sorted by name", func(t *testing.T) {
		out, err := run(t, "customers", "--rm", "001")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Contains(t, lines[1], "Lim Srey")
		assert.Contains(t, lines[2], "Sok Dara")
		assert.NotContains(t, out, "Chen Lao")
	})

	t.Run("Applies filters", func(t *testing.T) {
		out, err := run(t, "customers", "--q", "GROCERY", "--potential", "H (High)")
		require.NoError(t, err)
		assert.Contains(t, out, "Sok Dara")
		assert.NotContains(t, out, "Lim Srey")
	})

	t.Run("Other RM", func(t *testing.T) {
		out, err := run(t, "customers", "--rm", "002", "--status", "Completed")
		require.NoError(t, err)
		assert.Contains(t, out, "Chen Lao")
		assert.NotContains(t, out, "Sok Dara")
	})
}

func TestReadCommandsLeaveDataFilesAlone(t *testing.T) {
	dir := setupEnv(t)
	callLog := filepath.Join(dir, "call_log.csv")
	require.NoError(t, os.Remove(callLog))

	_, err := run(t, "customers", "--rm", "001")
	require.NoError(t, err)
	out, err := run(t, "summary", "--rm", "001")
	require.NoError(t, err)
	assert.Regexp(t, `Total Customers:\s+2`, out)

	_, err = os.Stat(callLog)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.Equal(t, testCustomersCSV, string(data))
}

func TestSummaryCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "summary", "--rm", "001")
	require.NoError(t, err)
	assert.Contains(t, out, "Performance for RM 001")
	assert.Regexp(t, `Total Customers:\s+2`, out)
	assert.Regexp(t, `High Potential:\s+1`, out)
	assert.Contains(t, out, "2024-05-01 09:30  Sok Dara (Completed): Interested in a loan")
	assert.NotContains(t, out, "Chen Lao")
}

func TestExportCommand(t *testing.T) {
	dir := setupEnv(t)
	target := filepath.Join(dir, "report.xlsx")

	_, err := run(t, "export", "--rm", "001", "--out", target)
	require.NoError(t, err)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	rows, err := f.GetRows("Call Log")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestActivityCommand(t *testing.T) {
	dir := setupEnv(t)

	require.NoError(t, db.Initialize(filepath.Join(dir, "app.db"), "test"))
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	require.NoError(t, services.RecordAuditEvent(db.DB, services.AuditContext{Username: "alice", RMCode: "001"},
		models.AuditActionLogin, "Session", "s1", "alice", "RM logged in", nil))
	require.NoError(t, services.RecordAuditEvent(db.DB, services.AuditContext{Username: "alice", RMCode: "001"},
		models.AuditActionCallLogged, "Customer", "1", "Sok Dara", "Call logged: Completed", nil))
	require.NoError(t, services.RecordAuditEvent(db.DB, services.AuditContext{Username: "bob", RMCode: "002"},
		models.AuditActionLogin, "Session", "s2", "bob", "RM logged in", nil))
	require.NoError(t, db.Close())

	t.Run("All events for the RM", func(t *testing.T) {
		out, err := run(t, "activity", "--rm", "001")
		require.NoError(t, err)
		assert.Contains(t, out, "Call logged: Completed")
		assert.Contains(t, out, "RM logged in")
		assert.NotContains(t, out, "bob")
	})

	t.Run("Filtered by action", func(t *testing.T) {
		out, err := run(t, "activity", "--rm", "001", "--action", "call_logged")
		require.NoError(t, err)
		assert.Contains(t, out, "Sok Dara")
		assert.NotContains(t, out, "RM logged in")
	})
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	assert.Equal(t, "plain", colorize(colorRed, "plain"))

	noColor = false
	assert.Equal(t, colorRed+"red"+colorReset, colorize(colorRed, "red"))
}
