package registro

import (
	"time"

	"gorm.io/datatypes"
)

// AmasadorasKey is the only key of Data with a recognized shape.
const AmasadorasKey = "amasadoras"

// Registro is one persisted bakery record. Data holds the document exactly as
// the client submitted it; only the "amasadoras" list is interpreted.
type Registro struct {
	ID        int64             `json:"id" gorm:"primaryKey;autoIncrement" bson:"_id"`
	Fecha     string            `json:"fecha" gorm:"type:text;not null;default:'';index" bson:"fecha"`
	Data      datatypes.JSONMap `json:"data" gorm:"type:jsonb" bson:"data"`
	CreatedAt time.Time         `json:"createdAt" gorm:"not null;autoCreateTime;index" bson:"createdAt"`
}

// TableName implements the gorm tabler interface.
func (Registro) TableName() string { return "registros" }

// Amasadoras returns the kneading batch list, or an empty slice when the key
// is absent or does not hold a list.
func (r *Registro) Amasadoras() []any {
	if r == nil || r.Data == nil {
		return []any{}
	}
	list, ok := r.Data[AmasadorasKey].([]any)
	if !ok {
		return []any{}
	}
	return list
}

// WithoutAmasadora returns a copy of Data whose amasadoras list lacks the
// element at index, plus the list length that remains. The other keys are
// carried over untouched. ok is false when index is out of range.
func (r *Registro) WithoutAmasadora(index int) (data datatypes.JSONMap, remaining int, ok bool) {
	list := r.Amasadoras()
	if index < 0 || index >= len(list) {
		return nil, 0, false
	}
	next := make([]any, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)

	data = make(datatypes.JSONMap, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[AmasadorasKey] = next
	return data, len(next), true
}
