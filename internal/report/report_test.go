package report

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/runner"
)

func TestSummarize(t *testing.T) {
	results := []runner.Result{
		{Path: "a.ipynb", Outcome: runner.Passed},
		{Path: "b.ipynb", Outcome: runner.Timeout},
		{Path: "c.ipynb", Outcome: runner.Exception, Traceback: "ValueError"},
		{Path: "d.ipynb", Outcome: runner.Malformed},
	}

	s := Summarize(results)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, []Failure{
		{Cause: runner.Timeout, Path: "b.ipynb"},
		{Cause: runner.Exception, Path: "c.ipynb", Traceback: "ValueError"},
		{Cause: runner.Malformed, Path: "d.ipynb"},
	}, s.Failures)
	assert.Equal(t, 1, s.ExitCode())
	assert.False(t, s.OK())
}

func TestSummarize_AllPassed(t *testing.T) {
	s := Summarize([]runner.Result{{Path: "a", Outcome: runner.Passed}})
	assert.Equal(t, 0, s.ExitCode())
	assert.Empty(t, s.Failures)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.ExitCode())
	assert.Equal(t, 0, empty.Total)
}

func TestSummary_TimeoutAndExceptionCountAlike(t *testing.T) {
	timeout := Summarize([]runner.Result{{Outcome: runner.Timeout}})
	exception := Summarize([]runner.Result{{Outcome: runner.Exception}})
	assert.Equal(t, exception.ExitCode(), timeout.ExitCode())
}

func TestTextFormatter_SingleException(t *testing.T) {
	s := Summarize([]runner.Result{{Path: "raises.ipynb", Outcome: runner.Exception, Traceback: "ValueError"}})

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(false, false).Format(&buf, s))

	want := "\n\n" +
		"Failed [1/1]\n" +
		"------------\n" +
		"\n" +
		"Cause        Notebook" + strings.Repeat(" ", 92) + "\n" +
		"---------    " + strings.Repeat("-", 100) + "\n" +
		"exception    raises.ipynb\n" +
		"\n\n" +
		"Passed [0/1]\n" +
		"------------\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_HeaderColumnsMatchRule(t *testing.T) {
	s := Summarize([]runner.Result{{Path: "x.ipynb", Outcome: runner.Timeout}})

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(false, false).Format(&buf, s))

	lines := strings.Split(buf.String(), "\n")
	idx := slices.IndexFunc(lines, func(l string) bool { return strings.HasPrefix(l, "Cause") })
	require.GreaterOrEqual(t, idx, 0)
	assert.Len(t, lines[idx], 9+4+100)
	assert.Len(t, lines[idx+1], 9+4+100)
}

func TestTextFormatter_AllPassedOmitsFailureTable(t *testing.T) {
	s := Summarize([]runner.Result{
		{Path: "a.ipynb", Outcome: runner.Passed},
		{Path: "b.ipynb", Outcome: runner.Passed},
	})

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(false, false).Format(&buf, s))
	assert.Equal(t, "\n\nPassed [2/2]\n------------\n\n", buf.String())
}

func TestTextFormatter_CauseColumnAlignment(t *testing.T) {
	s := Summarize([]runner.Result{
		{Path: "slow.ipynb", Outcome: runner.Timeout},
		{Path: "bad.ipynb", Outcome: runner.Malformed},
	})

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(false, false).Format(&buf, s))
	assert.Contains(t, buf.String(), "timeout      slow.ipynb\n")
	assert.Contains(t, buf.String(), "malformed    bad.ipynb\n")
	assert.Contains(t, buf.String(), "Failed [2/2]\n------------\n")
}

func TestTextFormatter_Traceback(t *testing.T) {
	s := Summarize([]runner.Result{
		{Path: "raises.ipynb", Outcome: runner.Exception, Traceback: "Traceback (most recent call last):\nValueError\n"},
		{Path: "ok.ipynb", Outcome: runner.Passed},
	})

	var withTB, without bytes.Buffer
	require.NoError(t, NewTextFormatter(false, true).Format(&withTB, s))
	require.NoError(t, NewTextFormatter(false, false).Format(&without, s))

	assert.Contains(t, withTB.String(), "exception: raises.ipynb\nTraceback (most recent call last):\nValueError\n")
	assert.NotContains(t, without.String(), "ValueError")
}

func TestTextFormatter_ColorToNonTerminal(t *testing.T) {
	s := Summarize([]runner.Result{{Path: "a.ipynb", Outcome: runner.Passed}})

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(true, false).Format(&buf, s))
	assert.Contains(t, buf.String(), "Passed [1/1]")
}

func TestJSONFormatter(t *testing.T) {
	s := Summarize([]runner.Result{
		{Path: "a.ipynb", Outcome: runner.Passed, Duration: 1500 * time.Millisecond},
		{Path: "b.ipynb", Outcome: runner.Exception, Traceback: "boom"},
	})
	s.RunID = "run-1"

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json", false, false).Format(&buf, s))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 1, out.Passed)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 1, out.ExitCode)
	require.Len(t, out.Notebooks, 2)
	assert.InDelta(t, 1500, out.Notebooks[0].DurationMS, 0.001)
	assert.Equal(t, "exception", out.Notebooks[1].Outcome)
	assert.Equal(t, "boom", out.Notebooks[1].Traceback)
}

func TestNewFormatter_DefaultsToText(t *testing.T) {
	_, ok := NewFormatter("", false, false).(*TextFormatter)
	assert.True(t, ok)
}
