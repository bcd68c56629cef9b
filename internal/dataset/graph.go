package dataset

import "fmt"

// DependencyGraph orders tables so that referenced tables are inserted
// before the tables that point at them. Tables are visited in the order
// they were added, which keeps the result stable between runs.
type DependencyGraph struct {
	tables map[string]Table
	names  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]Table),
	}
}

func (g *DependencyGraph) AddTable(table Table) {
	if _, exists := g.tables[table.Name]; !exists {
		g.names = append(g.names, table.Name)
	}
	g.tables[table.Name] = table
}

func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		if table, ok := g.tables[tableName]; ok {
			for _, dep := range table.Dependencies() {
				if _, known := g.tables[dep]; !known {
					return fmt.Errorf("table %s references unknown table %s", tableName, dep)
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
