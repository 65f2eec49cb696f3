package extractor

import (
	"errors"
	"strconv"

	"github.com/dop251/goja"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// maxSerializeDepth bounds the structural fold so adversarial cyclic or
// absurdly nested values fail the strategy instead of overflowing the
// stack.
const maxSerializeDepth = 64

var errValueTooDeep = errors.New("value nesting exceeds serialization depth limit")

// serialize folds a goja value into a models.Value. Function values are
// replaced with their source text as the runtime renders it; they are
// never invoked. Mapping entries keep the object's insertion order.
func serialize(vm *goja.Runtime, v goja.Value) (models.Value, error) {
	return serializeAt(vm, v, 0)
}

func serializeAt(vm *goja.Runtime, v goja.Value, depth int) (models.Value, error) {
	if depth > maxSerializeDepth {
		return models.Value{}, errValueTooDeep
	}

	if v == nil || goja.IsUndefined(v) {
		return models.Absent(), nil
	}
	if goja.IsNull(v) {
		return models.Null(), nil
	}
	if _, isFn := goja.AssertFunction(v); isFn {
		return models.FunctionValue(v.String()), nil
	}

	switch exported := v.Export().(type) {
	case bool:
		return models.BoolValue(exported), nil
	case string:
		return models.StringValue(exported), nil
	case int64:
		return models.NumberValue(float64(exported)), nil
	case float64:
		return models.NumberValue(exported), nil
	}

	obj := v.ToObject(vm)
	if obj.ClassName() == "Array" {
		length := obj.Get("length").ToInteger()
		seq := make([]models.Value, 0, length)
		for i := int64(0); i < length; i++ {
			item, err := serializeAt(vm, obj.Get(strconv.FormatInt(i, 10)), depth+1)
			if err != nil {
				return models.Value{}, err
			}
			if item.IsAbsent() {
				// holes and undefined elements keep their slot
				item = models.Null()
			}
			seq = append(seq, item)
		}
		return models.SequenceValue(seq), nil
	}

	keys := obj.Keys()
	entries := make([]models.Entry, 0, len(keys))
	for _, key := range keys {
		item, err := serializeAt(vm, obj.Get(key), depth+1)
		if err != nil {
			return models.Value{}, err
		}
		if item.IsAbsent() {
			continue
		}
		entries = append(entries, models.Entry{Key: key, Value: item})
	}
	return models.MappingValue(entries), nil
}
