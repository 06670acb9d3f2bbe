package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/quarryworks/quarrybooks/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// lineSpec is a draft journal line addressed by chart-of-accounts code. The
// posting helpers resolve codes to accounts and drop zero-amount specs so
// callers can list optional lines unconditionally.
type lineSpec struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Notes       string
}

// resolveAccountsByCode fetches the named control accounts and verifies each is
// active. The returned map is keyed by account code.
func resolveAccountsByCode(ctx context.Context, accountRepo portsrepo.AccountReader, codes []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if _, ok := accounts[code]; ok {
			continue
		}
		account, err := accountRepo.FindAccountByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("control account %s: %w", code, err)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: control account %s is inactive", apperrors.ErrValidation, code)
		}
		accounts[code] = *account
	}
	return accounts, nil
}

// buildJournalLines turns specs into domain lines for one journal. Specs whose
// amount is zero are skipped.
func buildJournalLines(journalID string, specs []lineSpec, accountsByCode map[string]domain.Account, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(specs))
	for _, spec := range specs {
		if spec.Debit.IsZero() && spec.Credit.IsZero() {
			continue
		}
		account, ok := accountsByCode[spec.AccountCode]
		if !ok {
			return nil, fmt.Errorf("%w: account code %s not resolved", apperrors.ErrInternal, spec.AccountCode)
		}
		lines = append(lines, domain.JournalLine{
			LineID:    uuid.NewString(),
			JournalID: journalID,
			AccountID: account.AccountID,
			Debit:     spec.Debit,
			Credit:    spec.Credit,
			Notes:     spec.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return lines, nil
}

// computeBalanceChanges folds the signed effect of every line into a per-account
// delta map, using each account's normal side.
func computeBalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s missing type information", apperrors.ErrInternal, line.AccountID)
		}
		signedAmount, err := accounting.CalculateSignedAmount(line, accountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signedAmount)
	}
	return balanceChanges, nil
}

// accountTypesOf indexes account types by account ID for balance calculations.
func accountTypesOf(accounts map[string]domain.Account) map[string]domain.AccountType {
	types := make(map[string]domain.AccountType, len(accounts))
	for _, account := range accounts {
		types[account.AccountID] = account.AccountType
	}
	return types
}

// journalAmount is the economic value of a balanced journal: the debit side sum.
func journalAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// newAudit stamps creation audit fields.
func newAudit(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
