package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"itbudget/budget"
	"itbudget/submission"
	"itbudget/testhelpers"
)

func TestReceipt(t *testing.T) {
	r := &submission.Receipt{
		ReferenceID: "AIC-IT-20250314092653-DEADBEEF",
		Currency:    "SAR",
		Message:     "Submitted for <AIC & Co>",
		Totals: budget.Totals{
			Operational: decimal.NewFromInt(11000),
			Support:     decimal.NewFromInt(202973),
			Grand:       decimal.NewFromInt(213973),
			Warnings:    []string{`automation package "X" not found`},
		},
	}

	var buf bytes.Buffer
	if err := Receipt(r).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	testhelpers.AssertHTMLContains(t, buf.String(),
		"AIC-IT-20250314092653-DEADBEEF",
		"SAR 213,973",
		"SAR 11,000",
		"Submitted for &lt;AIC &amp; Co&gt;",
		"automation package &#34;X&#34; not found",
		`href="/submit/receipt.pdf?ref=AIC-IT-20250314092653-DEADBEEF"`,
	)
}

func TestDraftSaved(t *testing.T) {
	var buf bytes.Buffer
	if err := DraftSaved("Draft saved at 09:26.").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := buf.String(), `<span class="draft-status">Draft saved at 09:26.</span>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
