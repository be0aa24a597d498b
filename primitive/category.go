package primitive

type CategoryEnum int

type CastPair struct {
	From, To KindEnum
}

const (
	CategorySafeCast      CategoryEnum = 1 << iota // numeric casts without precision loss, plus identity casts
	CategoryNarrowingCast                          // numeric casts that may truncate or lose precision
	CategoryDurationCast                           // time.Duration <-> integer nanoseconds

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected
)

var castPairs map[CategoryEnum]map[CastPair]struct{}

func init() {
	castPairs = make(map[CategoryEnum]map[CastPair]struct{})

	castPairs[CategorySafeCast] = safeCastPairs()

	// CategoryNarrowingCast: every remaining number-to-number cast
	castPairs[CategoryNarrowingCast] = map[CastPair]struct{}{}
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			pair := CastPair{fromKind, toKind}
			if _, ok := castPairs[CategorySafeCast][pair]; ok {
				continue
			}

			castPairs[CategoryNarrowingCast][pair] = struct{}{}
		}
	}

	// CategoryDurationCast: time.Duration <-> integer nanoseconds
	castPairs[CategoryDurationCast] = map[CastPair]struct{}{}
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsInteger() || numberKind == KindUint64 {
			continue
		}

		castPairs[CategoryDurationCast][CastPair{numberKind, KindDuration}] = struct{}{}
		castPairs[CategoryDurationCast][CastPair{KindDuration, numberKind}] = struct{}{}
	}
}

// CastCategory returns the category a cast between two kinds belongs
// to, or CategoryNone when no plain conversion expression exists.
func CastCategory(from, to KindEnum) CategoryEnum {
	pair := CastPair{from, to}
	for category, pairs := range castPairs {
		if _, ok := pairs[pair]; ok {
			return category
		}
	}

	return CategoryNone
}

// CanCast reports whether a cast between two kinds is expressible
// within the allowed categories.
func CanCast(from, to KindEnum, allowed CategoryEnum) bool {
	category := CastCategory(from, to)
	return category != CategoryNone && category&allowed != 0
}

func safeCastPairs() map[CastPair]struct{} {
	return map[CastPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {}, // int16 omitting narrowing to int8
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {}, // int32 omitting narrowing to int8/16
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt64}: {}, // int64 is the widest signed integer type

		{KindUint, KindUint}:   {}, // uint can be any wide from 32 upto 64
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {}, // uint16 omitting narrowing to uint8
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {}, // uint32 omitting narrowing to uint8/16
		{KindUint32, KindInt64}:   {}, // also only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindUint64, KindUint64}: {}, // uint64 is the widest unsigned integer type

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},

		{KindBool, KindBool}:         {},
		{KindString, KindString}:     {},
		{KindDuration, KindDuration}: {},
	}
}
