// Package ui renders the HTML comparator report: one query, every
// protection strategy side by side.
package ui

import (
	"fmt"

	"inferguard/internal/domain"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const reportMaxRows = 50

func reportPage(caller, queryText string, outcomes []*domain.Outcome, runError string) gomponents.Node {
	cards := make([]gomponents.Node, 0, len(outcomes))
	for _, out := range outcomes {
		cards = append(cards, outcomeCard(out))
	}

	var errorNode gomponents.Node
	if runError != "" {
		errorNode = html.Div(
			html.Class("card error"),
			html.H2(gomponents.Text("Error")),
			html.Pre(gomponents.Text(runError)),
		)
	}

	return html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text("Protection Report")),
			html.StyleEl(gomponents.Raw(reportCSS)),
		),
		html.Body(
			html.Main(
				html.Class("shell"),
				html.Div(
					html.Class("topbar"),
					html.H1(gomponents.Text("Protection Report")),
					html.P(html.Class("muted"), gomponents.Text("Caller: "+caller)),
				),
				html.Form(
					html.Class("card"),
					html.Method("get"),
					html.Action("/report"),
					html.Label(html.For("query"), gomponents.Text("Query")),
					html.Textarea(
						html.ID("query"),
						html.Name("query"),
						gomponents.Attr("rows", "3"),
						gomponents.Text(queryText),
					),
					html.Button(html.Type("submit"), gomponents.Text("Run comparison")),
				),
				errorNode,
				html.Section(html.Class("grid"), gomponents.Group(cards)),
			),
		),
	)
}

func outcomeCard(out *domain.Outcome) gomponents.Node {
	verdict := html.Span(html.Class("badge allowed"), gomponents.Text("ALLOWED"))
	if out.Blocked {
		verdict = html.Span(html.Class("badge blocked"), gomponents.Text("BLOCKED"))
	}

	body := gomponents.Node(html.P(html.Class("muted"), gomponents.Text("No rows returned.")))
	switch {
	case out.Blocked:
		body = html.P(html.Class("reason"), gomponents.Text(out.BlockReason))
	case out.Result != nil && out.Result.RowCount() > 0:
		body = resultTable(out.Result)
	}

	var protection gomponents.Node
	if out.Protection != "" {
		protection = html.P(html.Class("muted"), gomponents.Text(out.Protection))
	}

	return html.Div(
		html.Class("card outcome"),
		html.Div(
			html.Class("outcome-head"),
			html.H2(gomponents.Text(string(out.Strategy))),
			verdict,
		),
		body,
		protection,
	)
}

func resultTable(rs *domain.ResultSet) gomponents.Node {
	headerCols := make([]gomponents.Node, 0, len(rs.Columns))
	for _, col := range rs.Columns {
		headerCols = append(headerCols, html.Th(gomponents.Text(col)))
	}

	displayRows := rs.Rows
	truncated := false
	if len(displayRows) > reportMaxRows {
		displayRows = displayRows[:reportMaxRows]
		truncated = true
	}

	rows := make([]gomponents.Node, 0, len(displayRows))
	for _, row := range displayRows {
		cells := make([]gomponents.Node, 0, len(rs.Columns))
		for _, col := range rs.Columns {
			cells = append(cells, html.Td(gomponents.Text(cellString(row[col]))))
		}
		rows = append(rows, html.Tr(gomponents.Group(cells)))
	}

	meta := fmt.Sprintf("%d row(s)", rs.RowCount())
	if truncated {
		meta = fmt.Sprintf("%d row(s), showing first %d", rs.RowCount(), reportMaxRows)
	}

	return html.Div(
		html.Class("table-wrap"),
		html.P(html.Class("muted"), gomponents.Text(meta)),
		html.Table(
			html.THead(html.Tr(gomponents.Group(headerCols))),
			html.TBody(gomponents.Group(rows)),
		),
	)
}

func cellString(value interface{}) string {
	if value == nil {
		return "NULL"
	}
	if f, ok := value.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return fmt.Sprintf("%v", value)
}
