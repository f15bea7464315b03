package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/sirupsen/logrus"
)

const casesUnavailable = "I can't reach the case records right now. Please try again shortly."

type fraudTools struct {
	cases port.FraudCaseStore
}

// FraudTools returns the fraud-desk lookup and update tools.
func FraudTools(cases port.FraudCaseStore) []Tool {
	ft := &fraudTools{cases: cases}

	return []Tool{
		{
			Name:        "lookup_fraud_case",
			Description: "Look up the open fraud case for a customer by the name on the account.",
			Parameters: object([]string{"user_name"}, map[string]any{
				"user_name": prop("string", "Name on the account."),
			}),
			Handler: ft.lookup,
		},
		{
			Name:        "update_fraud_case",
			Description: "Record the outcome of a fraud case once the customer has confirmed or denied the transaction.",
			Parameters: object([]string{"user_name", "status"}, map[string]any{
				"user_name": prop("string", "Name on the account."),
				"status":    prop("string", "New case status (e.g. 'confirmed_safe', 'confirmed_fraud', 'verification_failed')."),
				"note":      prop("string", "Short outcome note."),
			}),
			Handler: ft.update,
		},
	}
}

func (ft *fraudTools) lookup(ctx context.Context, _ *domain.Session, args Args) (string, error) {
	name, err := args.Text("user_name")
	if err != nil {
		return "", err
	}
	if name == "" {
		return "Could you tell me the name on the account?", nil
	}

	c, found, err := ft.cases.FindByUserName(ctx, name)
	if err != nil {
		ft.logFailure("lookup", name, err)
		return casesUnavailable, nil
	}
	if !found {
		return notFoundCase(name), nil
	}

	details := c.Details()
	if len(details) == 0 {
		return fmt.Sprintf("I found a case for %s.", c.UserName()), nil
	}
	return fmt.Sprintf("I found a case for %s. %s.", c.UserName(), strings.Join(details, "; ")), nil
}

func (ft *fraudTools) update(ctx context.Context, _ *domain.Session, args Args) (string, error) {
	name, err := args.Text("user_name")
	if err != nil {
		return "", err
	}
	status, err := args.Text("status")
	if err != nil {
		return "", err
	}
	note, err := args.Text("note")
	if err != nil {
		return "", err
	}
	if name == "" || status == "" {
		return "I need both the account name and the new case status to update the case.", nil
	}

	fields := map[string]any{domain.FraudFieldStatus: status}
	if note != "" {
		fields[domain.FraudFieldNote] = note
	}

	updated, err := ft.cases.Update(ctx, name, fields)
	if err != nil {
		ft.logFailure("update", name, err)
		return casesUnavailable, nil
	}
	if !updated {
		return notFoundCase(name), nil
	}

	return fmt.Sprintf("Thanks, I've marked the case for %s as %s.", name, status), nil
}

func (ft *fraudTools) logFailure(op, name string, err error) {
	log.With("fraud_tools").WithFields(logrus.Fields{
		"op":        op,
		"user_name": name,
		"error":     err,
	}).Error("fraud case store unavailable")
}

func notFoundCase(name string) string {
	return fmt.Sprintf("I couldn't find a fraud case for %s. Could you confirm the name on the account?", name)
}
