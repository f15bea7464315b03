package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/sirupsen/logrus"
)

// fraudCaseRepository reads and rewrites a JSON array of case objects.
// Cases other than the updated one are written back byte-for-byte; the updated
// one keeps its field order and untouched values.
type fraudCaseRepository struct {
	path string
}

func NewFraudCases(path string) (port.FraudCaseStore, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	return &fraudCaseRepository{path: path}, nil
}

func (r *fraudCaseRepository) FindByUserName(ctx context.Context, userName string) (domain.FraudCase, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if userName == "" {
		return nil, false, fmt.Errorf("userName is empty")
	}

	entries, err := readEntries(r.path)
	if err != nil {
		return nil, false, fmt.Errorf("readEntries: %w", err)
	}
	if entries == nil {
		log.With("fraud_cases").WithField("path", r.path).Warn("case file is missing or empty")
	}

	i, c, err := findCase(entries, userName)
	if err != nil {
		return nil, false, fmt.Errorf("findCase: %w", err)
	}

	return c, i >= 0, nil
}

func (r *fraudCaseRepository) Update(ctx context.Context, userName string, fields map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if userName == "" {
		return false, fmt.Errorf("userName is empty")
	}

	entries, err := readEntries(r.path)
	if err != nil {
		return false, fmt.Errorf("readEntries: %w", err)
	}

	i, c, err := findCase(entries, userName)
	if err != nil {
		return false, fmt.Errorf("findCase: %w", err)
	}
	if i < 0 {
		return false, nil
	}

	raw, err := patchObject(entries[i], fields)
	if err != nil {
		return false, fmt.Errorf("patchObject entry[%d]: %w", i, err)
	}
	entries[i] = raw

	if err := writeEntries(r.path, entries); err != nil {
		return false, fmt.Errorf("writeEntries: %w", err)
	}

	log.With("fraud_cases").WithFields(logrus.Fields{
		"user_name": c.UserName(),
		"fields":    len(fields),
	}).Info("case updated")

	return true, nil
}

// findCase returns the index of the first case whose user name matches, or -1.
func findCase(entries []json.RawMessage, userName string) (int, domain.FraudCase, error) {
	for i, entry := range entries {
		var c domain.FraudCase
		if err := json.Unmarshal(entry, &c); err != nil {
			return -1, nil, fmt.Errorf("json.Unmarshal entry[%d]: %w", i, err)
		}
		if c.Matches(userName) {
			return i, c, nil
		}
	}

	return -1, nil, nil
}

// patchObject sets fields on a raw JSON object. Existing keys stay in place
// and keep their untouched values; new keys are appended in sorted order.
func patchObject(raw json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("dec.Token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("entry is not an object")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	members := 0
	seen := make(map[string]bool, len(fields))

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("dec.Token: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("dec.Decode[%s]: %w", key, err)
		}

		if v, ok := fields[key]; ok {
			seen[key] = true
			if value, err = json.Marshal(v); err != nil {
				return nil, fmt.Errorf("json.Marshal[%s]: %w", key, err)
			}
		}

		if err := writeMember(&buf, members, key, value); err != nil {
			return nil, err
		}
		members++
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if seen[key] {
			continue
		}

		value, err := json.Marshal(fields[key])
		if err != nil {
			return nil, fmt.Errorf("json.Marshal[%s]: %w", key, err)
		}
		if err := writeMember(&buf, members, key, value); err != nil {
			return nil, err
		}
		members++
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, index int, key string, value json.RawMessage) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("json.Marshal key[%s]: %w", key, err)
	}

	if index > 0 {
		buf.WriteByte(',')
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	buf.Write(value)

	return nil
}
