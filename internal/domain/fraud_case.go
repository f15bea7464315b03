package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FraudCase is one fraud-desk record. Case files are free-form JSON objects;
// only the user name is required.
type FraudCase map[string]any

const (
	FraudFieldUserName = "userName"
	FraudFieldStatus   = "status"
	FraudFieldNote     = "outcomeNote"
)

func (c FraudCase) UserName() string {
	s, _ := c[FraudFieldUserName].(string)
	return s
}

func (c FraudCase) Status() string {
	s, _ := c[FraudFieldStatus].(string)
	return s
}

// Details lists every field except the user name as "key: value", sorted by key.
func (c FraudCase) Details() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		if k != FraudFieldUserName {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %v", k, c[k]))
	}
	return out
}

func (c FraudCase) Matches(userName string) bool {
	return strings.EqualFold(c.UserName(), userName)
}
