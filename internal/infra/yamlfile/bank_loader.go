package yamlfile

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sentence-quiz/internal/domain"
)

// File is the on-disk layout of a question bank file.
type File struct {
	Banks []domain.Bank `yaml:"banks"`
}

// BankLoader serves banks read from a YAML file at construction time.
type BankLoader struct {
	order []string
	banks map[string]domain.Bank
}

// Load reads every bank in the file at path.
func Load(path string) (*BankLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a bank file. Duplicate bank IDs are rejected.
func Parse(data []byte) (*BankLoader, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse bank file: %w", err)
	}
	loader := &BankLoader{banks: make(map[string]domain.Bank, len(file.Banks))}
	for _, bank := range file.Banks {
		if _, dup := loader.banks[bank.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate bank id %q", domain.ErrInvalidBank, bank.ID)
		}
		loader.banks[bank.ID] = bank
		loader.order = append(loader.order, bank.ID)
	}
	return loader, nil
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

// Banks returns every bank in file order.
func (l *BankLoader) Banks() []domain.Bank {
	out := make([]domain.Bank, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.banks[id])
	}
	return out
}
