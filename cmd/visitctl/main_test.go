package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintResetResult(t *testing.T) {
	var buf bytes.Buffer
	printResetResult(&buf, false, 12, 3)
	if !strings.Contains(buf.String(), "12 page views, 3 daily aggregates") {
		t.Fatalf("unconfirmed output should report counts, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "--confirm") {
		t.Fatalf("unconfirmed output should mention --confirm, got %q", buf.String())
	}

	buf.Reset()
	printResetResult(&buf, true, 12, 3)
	if !strings.Contains(buf.String(), "Deleted 12 page view records") || !strings.Contains(buf.String(), "Deleted 3 daily aggregate records") {
		t.Fatalf("confirmed output should report deleted counts, got %q", buf.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := rootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	if !names["clear-visits"] || !names["stats"] {
		t.Fatalf("want clear-visits and stats subcommands, got %v", names)
	}
	clearCmd, _, err := cmd.Find([]string{"clear-visits"})
	if err != nil {
		t.Fatalf("find clear-visits failed: %v", err)
	}
	if clearCmd.Flags().Lookup("confirm") == nil {
		t.Fatalf("clear-visits should define --confirm")
	}
}
