package bizdoc_test

import (
	"context"
	"errors"
	"fmt"

	bizdoc "github.com/alnah/go-bizdoc"
)

// Example renders a slide deck, which needs no browser.
func Example() {
	r, err := bizdoc.NewRenderer(
		bizdoc.WithCompanyInfo(bizdoc.CompanyInfo{Name: "주식회사 예시"}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	deck, err := r.GeneratePPTX(context.Background(), &bizdoc.Document{
		ID:      "example",
		Type:    bizdoc.TypeProposal,
		Title:   "신규 사업 제안",
		Content: []byte(`{"slides":[{"title":"개요","content":"배경과 목표"}]}`),
		Status:  bizdoc.StatusCompleted,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(len(deck) > 0)
	// Output: true
}

// ExampleCategoryOf shows how callers distinguish render failures.
func ExampleCategoryOf() {
	err := fmt.Errorf("%w: printing: target closed", bizdoc.ErrEngineCrashed)

	fmt.Println(bizdoc.CategoryOf(err))
	fmt.Println(bizdoc.Retryable(err))
	fmt.Println(errors.Is(err, bizdoc.ErrRenderFailed))
	// Output:
	// engine_crashed
	// true
	// false
}
