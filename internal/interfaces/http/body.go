package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
)

// parsePurchaseBody decodifica el cuerpo de POST/PUT. Un cuerpo mal formado se informa
// como *domain.ValidationError con el campo afectado cuando se puede identificar.
func parsePurchaseBody(c *fiber.Ctx, in *dto.PurchaseRequest) error {
	if err := c.BodyParser(in); err != nil {
		return bodyError(c.Body(), err)
	}
	return nil
}

func bodyError(body []byte, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, "type")
	}
	if field := invalidAmountField(body); field != "" {
		return domain.NewValidationError(field, "numeric")
	}
	return domain.NewValidationError("body", "json")
}

// amountFields solo los importes, sin decodificar: permite ubicar cuál no es numérico.
type amountFields struct {
	Items []struct {
		Quantity json.RawMessage `json:"quantity"`
		UnitCost json.RawMessage `json:"unit_cost"`
	} `json:"items"`
	Cost     []json.RawMessage `json:"cost"`
	Quantity []json.RawMessage `json:"quantity"`
}

// invalidAmountField devuelve el primer importe que no es un decimal válido, con el mismo
// nombre que usan los errores de validación (items[0].quantity, cost[1]...).
func invalidAmountField(body []byte) string {
	var raw amountFields
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for i, it := range raw.Items {
		if !isAmount(it.Quantity) {
			return fmt.Sprintf("items[%d].quantity", i)
		}
		if !isAmount(it.UnitCost) {
			return fmt.Sprintf("items[%d].unit_cost", i)
		}
	}
	for i, v := range raw.Cost {
		if !isAmount(v) {
			return fmt.Sprintf("cost[%d]", i)
		}
	}
	for i, v := range raw.Quantity {
		if !isAmount(v) {
			return fmt.Sprintf("quantity[%d]", i)
		}
	}
	return ""
}

func isAmount(v json.RawMessage) bool {
	if len(v) == 0 || string(v) == "null" {
		return true
	}
	var d decimal.Decimal
	return d.UnmarshalJSON(v) == nil
}
