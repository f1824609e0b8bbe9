package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/client"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
)

func (a *App) loc() *time.Location {
	return a.engine.Now().Location()
}

// status is the REPL prompt decoration.
func (a *App) status() string {
	st := a.reports.State()
	if !st.IsConfigured {
		return "(not configured)"
	}
	who := "all"
	if st.SelectedEmployeeID != nil {
		who = *st.SelectedEmployeeID
	}
	return fmt.Sprintf("(%s, %s, %d/%d)", who, st.SelectedDateFilter.Label(), len(st.FilteredRecords), len(st.Records))
}

// Refresh reloads settings and records.
func (a *App) Refresh(ctx context.Context) error {
	err := a.reports.CheckConfiguration(ctx)
	st := a.reports.State()
	if err != nil {
		a.reports.ClearError()
		return err
	}
	if !st.IsConfigured {
		return reports.ErrNotConfigured
	}
	last := ""
	if st.LastRefresh != nil {
		last = *st.LastRefresh
	}
	fmt.Fprintf(a.out, "Loaded %d records for %d employees (last refresh %s)\n", len(st.Records), len(st.EmployeeIDs), last)
	return nil
}

func (a *App) SelectEmployee(_ context.Context, arg string) error {
	if strings.EqualFold(arg, "all") {
		a.reports.SelectEmployee(nil)
	} else {
		a.reports.SelectEmployee(&arg)
	}
	fmt.Fprintf(a.out, "%d records match\n", len(a.reports.State().FilteredRecords))
	return nil
}

func (a *App) SelectFilter(_ context.Context, arg string) error {
	bucket, err := filter.ParseDateBucket(arg)
	if err != nil {
		return err
	}
	a.reports.SelectDateFilter(bucket)
	fmt.Fprintf(a.out, "Filter: %s, %d records match\n", bucket.Label(), len(a.reports.State().FilteredRecords))
	return nil
}

func (a *App) List(_ context.Context) error {
	return printRecordsTable(a.out, a.reports.State().FilteredRecords, a.loc())
}

func (a *App) Show(_ context.Context, id string) error {
	want, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", id)
	}
	for _, r := range a.reports.State().Records {
		if r.ID != nil && *r.ID == want {
			printRecordDetail(a.out, r, a.loc())
			return nil
		}
	}
	return fmt.Errorf("record %d not found", want)
}

func (a *App) Stats(_ context.Context) error {
	printStats(a.out, a.reports.State().Stats)
	return nil
}

func (a *App) Daily(_ context.Context) error {
	return printDaily(a.out, filter.DailySummaries(a.reports.State().FilteredRecords, a.loc()))
}

// Settings prints the stored endpoint, the masked key and what can be read
// from the key itself.
func (a *App) Settings(ctx context.Context) error {
	creds, err := a.store.Read(ctx)
	if err != nil {
		return err
	}
	printSettings(a, creds)
	return nil
}

func printSettings(a *App, creds models.Credentials) {
	endpoint := creds.Endpoint
	if endpoint == "" {
		endpoint = "(not set)"
	}
	fmt.Fprintf(a.out, "URL: %s\n", endpoint)
	if creds.SecretKey == "" {
		fmt.Fprintln(a.out, "Key: (not set)")
		return
	}
	fmt.Fprintf(a.out, "Key: %s\n", creds.Masked())

	info := client.InspectKey(creds.SecretKey)
	line := "Key format: " + info.Format
	if info.Role != "" {
		line += ", role " + info.Role
	}
	if info.ProjectRef != "" {
		line += ", project " + info.ProjectRef
	}
	fmt.Fprintln(a.out, line)
	if info.ExpiresAt != nil {
		exp := info.ExpiresAt.In(a.loc()).Format(time.DateTime)
		if info.Expired(a.engine.Now()) {
			fmt.Fprintln(a.out, errorColor.Sprintf("Key expired at %s", exp))
		} else {
			fmt.Fprintf(a.out, "Key expires at %s\n", exp)
		}
	}
}

// TestConnection probes the backend with the stored settings.
func (a *App) TestConnection(ctx context.Context) error {
	if err := a.settings.Load(ctx); err != nil {
		return err
	}
	return a.runConnectionTest(ctx)
}

func (a *App) runConnectionTest(ctx context.Context) error {
	ok, err := a.settings.TestConnection(ctx)
	st := a.settings.State()
	a.settings.ClearError()
	a.settings.ClearSuccessStates()

	if ok {
		fmt.Fprintln(a.out, successColor.Sprint("Connection successful"))
		return nil
	}
	if err != nil {
		return err
	}
	if st.ErrorMessage != nil {
		return errors.New(*st.ErrorMessage)
	}
	return errors.New(reports.MsgConnectionFail)
}
