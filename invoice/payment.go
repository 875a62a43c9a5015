package invoice

import "fmt"

const maxVariableSymbolLength = 10

// PaymentMethod 是支付方式：Cash、Card 或 BankTransfer。
type PaymentMethod interface {
	paymentMethod()
}

// Cash 现金支付。
type Cash struct{}

// Card 刷卡支付，Reference 可选。
type Card struct{ Reference string }

// BankTransfer 银行转账，VariableSymbol 为最多 10 位数字的付款标识。
type BankTransfer struct{ VariableSymbol string }

func (Cash) paymentMethod()         {}
func (Card) paymentMethod()         {}
func (BankTransfer) paymentMethod() {}

func validatePayment(p PaymentMethod) error {
	switch v := p.(type) {
	case nil:
		return ErrMissingPayment
	case BankTransfer:
		if len(v.VariableSymbol) > maxVariableSymbolLength {
			return fmt.Errorf("%w: %q", ErrInvalidVariableSymbol, v.VariableSymbol)
		}
		for _, r := range v.VariableSymbol {
			if r < '0' || r > '9' {
				return fmt.Errorf("%w: %q", ErrInvalidVariableSymbol, v.VariableSymbol)
			}
		}
	}
	return nil
}
