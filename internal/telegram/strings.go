package telegram

// User-visible text.
const (
	AppTitle           = "Shopping List"
	DialogTitle        = "Add product to list"
	PlaceholderProduct = "Product"
	PlaceholderAmount  = "Amount"
	LabelConfirm       = "OK"
	LabelAdd           = "➕ Add"
	LabelDeleteAll     = "🧹 Delete all"
	LabelDelete        = "🗑"
	EmptyList          = "_Nothing on the list yet._"
	NoticeDeleteHint   = "Press 🗑 next to an item to delete it"
	NoticeInvalidInput = "Fields cannot be empty and the amount must be a positive number"
	NoticeDialogClosed = "Nothing added."
	NoticeUseAdd       = "Tap ➕ Add to put something on the list."
)
