//go:build !integration

package usecase

import (
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		bot  string
		cmd  string
		isOK bool
	}{
		{"/paymentstatus", "StatusPaymentBot", "/paymentstatus", true},
		{"/PaymentStatus please", "StatusPaymentBot", "/paymentstatus", true},
		{"/help@StatusPaymentBot", "StatusPaymentBot", "/help", true},
		{"/help@statuspaymentbot", "StatusPaymentBot", "/help", true},
		{"/help@OtherBot", "StatusPaymentBot", "", false},
		{"/help@OtherBot", "", "/help", true},
		{"hello /help", "StatusPaymentBot", "", false},
		{"", "StatusPaymentBot", "", false},
	}
	for _, tc := range cases {
		cmd, ok := parseCommand(tc.in, tc.bot)
		if ok != tc.isOK || cmd != tc.cmd {
			t.Errorf("parseCommand(%q, %q) = (%q, %v), want (%q, %v)", tc.in, tc.bot, cmd, ok, tc.cmd, tc.isOK)
		}
	}
}

func TestMentionsBot(t *testing.T) {
	yes := []string{"@StatusPaymentBot", "hi @statuspaymentbot!", "@StatusPaymentBot, status?", "x @StatusPaymentBot"}
	no := []string{"StatusPaymentBot", "@StatusPaymentBot2", "@StatusPaymentBot_old", "mail@other.com"}
	for _, s := range yes {
		if !mentionsBot(s, "StatusPaymentBot") {
			t.Errorf("expected %q to mention the bot", s)
		}
	}
	for _, s := range no {
		if mentionsBot(s, "StatusPaymentBot") {
			t.Errorf("expected %q not to mention the bot", s)
		}
	}
	if mentionsBot("@anything", "") {
		t.Error("an unknown username never matches")
	}
}

func TestSearchDescriptors(t *testing.T) {
	content := "line1: monthly fee\nline2: setup cost\n\n   \nline3: processing FEE\r\n"
	got := SearchDescriptors(content, "fee")
	want := []string{"line1: monthly fee", "line3: processing FEE"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
	if SearchDescriptors(content, "  ") != nil {
		t.Error("blank keyword should match nothing")
	}
}
