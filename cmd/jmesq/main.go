// Command jmesq evaluates a JMESPath expression against a JSON document
// read from argv, printing the tokenized form, the parsed AST, and the
// result for debugging.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-jmes/jmespath"
	"github.com/kr/pretty"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: jmesq <expression> <json>")
		os.Exit(1)
	}
	expression := os.Args[1]
	input := []byte(os.Args[2])

	fmt.Println(expression)
	tokens, ast, err := jmespath.Debug(expression)
	if err != nil {
		fmt.Println("Error parsing expression")
		fmt.Println(err)
		os.Exit(1)
	}
	pretty.Print(tokens)
	fmt.Println("")
	pretty.Print(ast)
	fmt.Println("")

	var data interface{}
	if err := json.Unmarshal(input, &data); err != nil {
		fmt.Println("Error decoding JSON input")
		fmt.Println(err)
		os.Exit(1)
	}
	result, err := jmespath.Search(expression, data)
	if err != nil {
		fmt.Println("Error executing expression")
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(result)
	toJSON, err := json.Marshal(result)
	if err != nil {
		fmt.Println("Error serializing JSON")
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(string(toJSON))
}
