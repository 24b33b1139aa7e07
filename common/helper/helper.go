package helper

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

func GetTimestamp() int64 {
	return time.Now().Unix()
}

func GetTimeString() string {
	now := time.Now()
	return fmt.Sprintf("%s%d", now.Format("20060102150405"), now.UnixNano()%1e9)
}

func GetRandomNumberString(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteString(strconv.Itoa(rand.Intn(10)))
	}
	return b.String()
}

// GenRequestID returns a sortable id: timestamp followed by 8 random digits.
func GenRequestID() string {
	return GetTimeString() + GetRandomNumberString(8)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
