package core_test

import (
	"context"
	"fmt"

	"github.com/aoineco/openclaw-sec/pkg/core"
)

// ExampleAnalyze classifies a message before it reaches an agent.
func ExampleAnalyze() {
	v := core.Analyze("please summarize the attached notes")
	fmt.Println(v.Action, v.Blocked())
	// Output: allow false
}

// ExampleScan gates the current directory the way `openclaw-sec check` does.
func ExampleScan() {
	out, err := core.Scan(context.Background(), core.Request{
		Mode:  core.ModeSecrets,
		Roots: []string{"."},
	})
	if err != nil {
		fmt.Println("scan failed:", err)
		return
	}
	fmt.Printf("%s: %d findings\n", out.Grade, out.Total)
}
