/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package protocol

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ViperDecoderHook returns a mapstructure.DecodeHookFuncType that teaches
// viper (and any other mapstructure-based config loader) how to decode a
// NetworkProtocol from a config string or numeric code. Any other source or
// target type passes the raw data through unchanged.
func ViperDecoderHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		var z NetworkProtocol

		if to != reflect.TypeOf(z) {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			s, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(s), nil

		case reflect.Int:
			v, ok := data.(int)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Int8:
			v, ok := data.(int8)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Int16:
			v, ok := data.(int16)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Int32:
			v, ok := data.(int32)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Int64:
			v, ok := data.(int64)
			if !ok {
				return data, nil
			}
			return codeToProtocol(v)

		case reflect.Uint:
			v, ok := data.(uint)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Uint8:
			v, ok := data.(uint8)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Uint16:
			v, ok := data.(uint16)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Uint32:
			v, ok := data.(uint32)
			if !ok {
				return data, nil
			}
			return codeToProtocol(int64(v))

		case reflect.Uint64:
			v, ok := data.(uint64)
			if !ok {
				return data, nil
			}
			if v > math.MaxInt64 {
				return nil, fmt.Errorf("invalid value %d for network protocol", v)
			}
			return codeToProtocol(int64(v))

		default:
			return data, nil
		}
	}
}

func codeToProtocol(v int64) (interface{}, error) {
	if v <= 0 || v > math.MaxUint8 {
		return nil, fmt.Errorf("invalid value %d for network protocol", v)
	}

	n := NetworkProtocol(v)
	if !n.valid() {
		return nil, fmt.Errorf("invalid value %d for network protocol", v)
	}

	return n, nil
}
