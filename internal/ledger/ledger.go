// Package ledger считает переходы версий тендеров и предложений.
//
// Изменение версии описывается парой From/To. From используется хранилищем
// как ожидаемое значение при сравнении-с-обменом, To записывается в строку.
package ledger

import (
	"fmt"

	"procurement/models"
)

type Change struct {
	From int
	To   int
}

// Bump переводит версию на следующую.
func Bump(current int) Change {
	return Change{From: current, To: current + 1}
}

// Rollback выставляет версию в target. Поля сущности не восстанавливаются.
func Rollback(current, target int) (Change, error) {
	if target < 1 {
		return Change{}, models.Invalid("version", fmt.Sprintf("must be positive, got %d", target))
	}
	return Change{From: current, To: target}, nil
}

func (c Change) Apply(version *int) {
	*version = c.To
}
