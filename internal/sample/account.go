package sample

// Transaction is one ledger entry. Amounts are stored positive;
// Kind says which direction the money moved.
type Transaction struct {
	Amount      float64
	Description string
	Kind        string
}

// Account is a bank account with a transaction ledger.
type Account struct {
	number  string
	owner   string
	balance float64
	ledger  []Transaction
}

// NewAccount validates the number, owner, and opening balance. A
// positive opening balance is recorded as the first deposit.
func NewAccount(number, owner string, balance float64) (*Account, error) {
	if balance < 0 {
		return nil, ValidationError("initial balance cannot be negative")
	}
	if !ValidNumber(number) {
		return nil, ValidationError("invalid account number")
	}
	if len(owner) < 4 || len(owner) > 50 {
		return nil, ValidationError("owner name must be 4 to 50 characters")
	}
	a := &Account{number: number, owner: owner, balance: balance}
	if balance > 0 {
		a.record(balance, "Initial deposit")
	}
	return a, nil
}

// Open is a convenience factory for an empty account.
func Open(number, owner string) (*Account, error) {
	return NewAccount(number, owner, 0)
}

// ValidNumber reports whether number is 5 to 20 alphanumeric bytes.
func ValidNumber(number string) bool {
	if len(number) < 5 || len(number) > 20 {
		return false
	}
	for i := 0; i < len(number); i++ {
		c := number[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

func (a *Account) Number() string { return a.number }

func (a *Account) OwnerName() string { return a.owner }

func (a *Account) SetOwnerName(name string) error {
	if name == "" {
		return ValidationError("owner name cannot be empty")
	}
	a.owner = name
	return nil
}

func (a *Account) Balance() float64 { return a.balance }

func (a *Account) Deposit(amount float64) (float64, error) {
	if amount <= 0 {
		return a.balance, ValidationError("deposit amount must be positive")
	}
	a.balance += amount
	a.record(amount, "Deposit")
	return a.balance, nil
}

func (a *Account) Withdraw(amount float64) (float64, error) {
	if amount <= 0 {
		return a.balance, ValidationError("withdrawal amount must be positive")
	}
	if amount > a.balance {
		return a.balance, ValidationError("insufficient funds")
	}
	a.balance -= amount
	a.record(-amount, "Withdrawal")
	return a.balance, nil
}

// History returns a copy of the ledger, optionally filtered by
// kind. An empty kind means everything.
func (a *Account) History(kind string) []Transaction {
	out := make([]Transaction, 0, len(a.ledger))
	for _, t := range a.ledger {
		if kind == "" || t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Transfer moves amount into target and returns the two resulting
// balances, source first.
func (a *Account) Transfer(target *Account, amount float64) ([]float64, error) {
	if target == nil {
		return nil, ValidationError("transfer target is required")
	}
	if amount <= 0 {
		return nil, ValidationError("transfer amount must be positive")
	}
	if amount > a.balance {
		return nil, ValidationError("insufficient funds for transfer")
	}
	if _, err := a.Withdraw(amount); err != nil {
		return nil, err
	}
	if _, err := target.Deposit(amount); err != nil {
		return nil, err
	}
	return []float64{a.balance, target.balance}, nil
}

func (a *Account) record(amount float64, desc string) {
	kind := "deposit"
	if amount < 0 {
		amount, kind = -amount, "withdrawal"
	}
	a.ledger = append(a.ledger, Transaction{Amount: amount, Description: desc, Kind: kind})
}
