package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/robaho/go-combinations/internal/classifier"
	"github.com/robaho/go-combinations/pkg/combinations"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "# bear put\nP -1 90 2024-01-19\nP 1 100 2024-01-19\n", "classify", "--rules", "../../configs/combinations.yaml", "--log-level", "warn")
	require.NoError(t, err)
	assert.Equal(t, "Bear Put Spread\n  order [2 1]\n   1 P -1 90 2024-01-19\n   2 P 1 100 2024-01-19\n", out)

	out, err = run(t, "F 1 2024-03-15\n", "classify", "--rules", "../../configs/combinations.xml")
	require.NoError(t, err)
	assert.Equal(t, "Unclassified\n", out)

	_, err = run(t, "Z 1 2024-03-15\n", "classify", "--rules", "../../configs/combinations.xml")
	assert.Error(t, err)
}

func TestClassifyRemote(t *testing.T) {
	lib, err := combinations.Load("../../configs/combinations.xml")
	require.NoError(t, err)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := classifier.NewGRPCServer(classifier.NewService(lib, nil, zerolog.Nop()), zerolog.Nop())
	go srv.Serve(lis)
	defer srv.Stop()

	out, err := run(t, "C 1 100 2024-01-19\nP 1 100 2024-01-19\n", "classify", "--rules", "../../configs/combinations.xml", "--server", lis.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, "Straddle\n  order [1 2]\n   1 C 1 100 2024-01-19\n   2 P 1 100 2024-01-19\n", out)
}

func TestPatternsCommand(t *testing.T) {
	out, err := run(t, "", "patterns", "--rules", "../../configs/combinations.xml")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, " 1 Straddle", lines[0])

	out, err = run(t, "", "patterns", "-v", "--rules", "../../configs/combinations.xml")
	require.NoError(t, err)
	assert.Contains(t, out, "more")
}

func TestMissingRules(t *testing.T) {
	_, err := run(t, "", "patterns", "--rules", "nosuch.xml")
	assert.Error(t, err)

	_, err = run(t, "", "patterns", "--config", "nosuch.properties")
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	lib, err := combinations.Load("../../configs/combinations.xml")
	require.NoError(t, err)
	service := classifier.NewService(lib, nil, zerolog.Nop())

	in := strings.NewReader(strings.Join([]string{
		"help",
		"classify C 1 100 2024-01-19; P 1 100 2024-01-19",
		"classify",
		"C -1 100 2024-01-19",
		"P -1 100 2024-01-19",
		"",
		"stats",
		"bogus",
		"quit",
		"patterns",
	}, "\n"))
	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), service, in, &out))

	s := out.String()
	assert.Contains(t, s, "The available commands are")
	assert.Contains(t, s, "Straddle\n")
	assert.Contains(t, s, "Short Straddle\n")
	assert.Contains(t, s, "classifications 2")
	assert.Contains(t, s, "Unknown command")
	assert.NotContains(t, s, " 1 Straddle")
}
