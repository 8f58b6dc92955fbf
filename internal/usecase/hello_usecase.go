package usecase

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultGreetingName = "World"
	maxGreetingName     = 100
)

type HelloUsecase struct{}

func NewHelloUsecase() *HelloUsecase { return &HelloUsecase{} }

// "Hello, <name>!"。空ならWorld、長すぎる名前は100文字で切る
func (u *HelloUsecase) Greet(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultGreetingName
	}
	if utf8.RuneCountInString(name) > maxGreetingName {
		name = string([]rune(name)[:maxGreetingName])
	}
	return "Hello, " + name + "!"
}
