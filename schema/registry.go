package schema

import (
	"database/sql"
	"encoding/json"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
)

var primitiveTypes sync.Map // map[reflect.Type]struct{}

func init() {
	// Date/time
	RegisterPrimitive[time.Time]()
	RegisterPrimitive[time.Duration]()

	// Raw bytes are values, not sequences of bytes
	RegisterPrimitive[[]byte]()
	RegisterPrimitive[json.RawMessage]()

	// Unique identifiers
	RegisterPrimitive[uuid.UUID]()
	RegisterPrimitive[ulid.ULID]()

	// Arbitrary precision numbers
	RegisterPrimitive[big.Int]()
	RegisterPrimitive[big.Float]()
	RegisterPrimitive[big.Rat]()

	// Nullable SQL types
	RegisterPrimitive[sql.NullString]()
	RegisterPrimitive[sql.NullInt64]()
	RegisterPrimitive[sql.NullInt32]()
	RegisterPrimitive[sql.NullInt16]()
	RegisterPrimitive[sql.NullFloat64]()
	RegisterPrimitive[sql.NullBool]()
	RegisterPrimitive[sql.NullTime]()
	RegisterPrimitive[sql.NullByte]()

	// PostgreSQL scalars
	RegisterPrimitive[pgtype.Text]()
	RegisterPrimitive[pgtype.Int2]()
	RegisterPrimitive[pgtype.Int4]()
	RegisterPrimitive[pgtype.Int8]()
	RegisterPrimitive[pgtype.Float4]()
	RegisterPrimitive[pgtype.Float8]()
	RegisterPrimitive[pgtype.Bool]()
	RegisterPrimitive[pgtype.Numeric]()
	RegisterPrimitive[pgtype.Date]()
	RegisterPrimitive[pgtype.Timestamp]()
	RegisterPrimitive[pgtype.Timestamptz]()
	RegisterPrimitive[pgtype.Interval]()
	RegisterPrimitive[pgtype.UUID]()
}

// RegisterPrimitive adds T to the recognized primitive set so that it is
// classified as Primitive instead of being decomposed. Register types before
// their first Describe: published descriptors are never reclassified.
func RegisterPrimitive[T any]() {
	RegisterPrimitiveType(reflect.TypeFor[T]())
}

// RegisterPrimitiveType is the non-generic form of RegisterPrimitive.
func RegisterPrimitiveType(t reflect.Type) {
	if t == nil {
		return
	}
	primitiveTypes.Store(t, struct{}{})
}

// IsPrimitiveType reports whether t is a scalar: a basic kind (which covers
// enumerations declared as named basic types), a registered primitive, or a
// pointer to one of those (the nullable form).
func IsPrimitiveType(t reflect.Type) bool {
	for t != nil {
		if _, ok := primitiveTypes.Load(t); ok {
			return true
		}
		switch t.Kind() {
		case reflect.Bool, reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
			reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
			return true
		case reflect.Pointer:
			t = t.Elem()
		default:
			return false
		}
	}
	return false
}
