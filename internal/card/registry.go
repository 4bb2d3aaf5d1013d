package card

// Widgets returns the document flow's cards keyed by name. editorApp, when
// set, enables ctrl+e on the subject and conditional cards.
func Widgets(editorApp string) map[Name]Widget {
	subject := NewTextCard(Subject, "Subject", "Subject line, <<Column>> placeholders are merged per row", "Hello <<Name>>")
	conditional := NewConditionalCard("Conditional", "ctrl+t toggles; only rows matching the condition are sent")
	if editorApp != "" {
		subject.EnableEditor(editorApp)
		conditional.EnableEditor(editorApp)
	}

	return map[Name]Widget{
		Title:            NewTextCard(Title, "Title", "A name for this merge", "Monthly newsletter"),
		Sheet:            NewTextCard(Sheet, "Sheet", "The sheet holding one row per recipient", "Sheet1"),
		Row:              NewTextCard(Row, "Header row", "The row number holding the column names", "1"),
		To:               NewRecipientsCard("Recipients", "tab moves between To, CC and BCC"),
		Subject:          subject,
		DocumentSelector: NewDocumentCard("Document", "Paste a document URL or ID"),
		Conditional:      conditional,
		SendNow:          NewSendNowCard("Send", "space toggles sending right after saving"),
	}
}

// NewDocumentRegistry returns a Registry over the widgets.
func NewDocumentRegistry(widgets map[Name]Widget) Registry {
	r := make(Registry, len(widgets))
	for name, w := range widgets {
		r[name] = w
	}
	return r
}
