package routes

import (
	"fmt"
	"io"
	"text/tabwriter"

	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/core/authz"

	"github.com/gofiber/fiber/v2"
)

// Rule is the access rule declared on one guarded endpoint
type Rule struct {
	Method string
	Path   string
	Access authz.Expr
}

// Table lists the guarded endpoints in registration order
type Table []Rule

// Find returns the rule registered for method and path
func (t Table) Find(method, path string) (Rule, bool) {
	for _, r := range t {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Rule{}, false
}

// Print writes the table as aligned columns
func (t Table) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tACCESS")
	for _, r := range t {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Path, r.Access)
	}
	return tw.Flush()
}

// group mounts guarded routes under one prefix and records their rules
type group struct {
	router fiber.Router
	prefix string
	table  *Table
}

func (g *group) add(method, path string, access authz.Expr, handler fiber.Handler) {
	g.router.Add(method, path, middleware.Require(access), handler)

	full := g.prefix
	if path != "/" {
		full += path
	}
	*g.table = append(*g.table, Rule{Method: method, Path: full, Access: access})
}

func (g *group) get(path string, access authz.Expr, handler fiber.Handler) {
	g.add(fiber.MethodGet, path, access, handler)
}

func (g *group) post(path string, access authz.Expr, handler fiber.Handler) {
	g.add(fiber.MethodPost, path, access, handler)
}

func (g *group) put(path string, access authz.Expr, handler fiber.Handler) {
	g.add(fiber.MethodPut, path, access, handler)
}

func (g *group) patch(path string, access authz.Expr, handler fiber.Handler) {
	g.add(fiber.MethodPatch, path, access, handler)
}

func (g *group) delete(path string, access authz.Expr, handler fiber.Handler) {
	g.add(fiber.MethodDelete, path, access, handler)
}
