package assert

import "github.com/transformlab/transformer/terror"

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(terror.New(message, args...))
	}
}
