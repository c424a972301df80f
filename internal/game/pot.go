package game

import "math/big"

// Pot holds the shared balance in the smallest currency unit. Tip
// substrates denominate in wei, which overflows int64 above ~9.2 ETH,
// so all pot arithmetic is exact big.Int math. Display formatting is
// the transport's problem; the pot never touches floats.
type Pot struct {
	balance *big.Int
}

// NewPot creates an empty pot.
func NewPot() *Pot {
	return &Pot{balance: new(big.Int)}
}

// Deposit credits an entry deposit to the pot. Callers validate that
// amount is positive before crediting.
func (p *Pot) Deposit(amount *big.Int) {
	p.balance.Add(p.balance, amount)
}

// Bonus credits the survival bonus to the pot.
func (p *Pot) Bonus(amount *big.Int) {
	p.balance.Add(p.balance, amount)
}

// Burn debits up to amount from the pot, clamping at the current balance
// so the pot never goes negative. Returns the amount actually burned.
func (p *Pot) Burn(amount *big.Int) *big.Int {
	burned := new(big.Int).Set(amount)
	if burned.Cmp(p.balance) > 0 {
		burned.Set(p.balance)
	}
	p.balance.Sub(p.balance, burned)
	return burned
}

// Balance returns a copy of the current balance.
func (p *Pot) Balance() *big.Int {
	return new(big.Int).Set(p.balance)
}
