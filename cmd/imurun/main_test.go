package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../testdata/imu_fixture.csv"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestSearchCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			"above",
			[]string{"search", "above", "-d", fixturePath, "-c", "ts", "--begin", "0", "--end", "1275", "-t", "1579579", "-w", "8"},
			"1265",
		},
		{
			"back",
			[]string{"search", "back", "-d", fixturePath, "-c", "ts", "--begin", "1275", "--end", "0", "--lo", "419556", "--hi", "432043", "-w", "5"},
			"341",
		},
		{
			"two",
			[]string{"search", "two", "-d", fixturePath + ".zst", "-c", "ax", "--channel2", "ay", "--begin", "0", "--end", "1275", "-t", "0.9", "--threshold2", "0.2", "-w", "5"},
			"34",
		},
		{
			"multi",
			[]string{"search", "multi", "-d", fixturePath, "-c", "accel_x", "--begin", "0", "--end", "1275", "--lo", "0", "--hi", "1", "-w", "2"},
			"(20,36),(73,286),(337,475),(477,621),(647,743),(925,926),(1120,1264)",
		},
		{
			"multi none",
			[]string{"search", "multi", "-d", fixturePath, "-c", "ax", "--begin", "0", "--end", "19", "--lo", "0", "--hi", "1", "-w", "2"},
			"none",
		},
		{
			"reversed range",
			[]string{"search", "above", "-d", fixturePath, "--begin", "10", "--end", "0", "-t", "0"},
			"-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "show", "-d", fixturePath, "0", "34")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0: 0, -0.5, 0, 9.81, 0, 0.2, -0.05", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "34: 42466, 0.95, 0.5, "))

	_, err = run(t, "show", "-d", fixturePath, "1276")
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("IMURUN_DATA_FILE", "")

	_, err := run(t, "search", "above", "--begin", "0", "--end", "1")
	assert.ErrorContains(t, err, "no data file")

	_, err = run(t, "search", "above", "-d", fixturePath, "-c", "mag_x")
	assert.ErrorContains(t, err, "invalid channel")

	_, err = run(t, "search", "above", "-d", fixturePath, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = run(t, "show", "-d", "does-not-exist.csv", "0")
	assert.Error(t, err)
}
