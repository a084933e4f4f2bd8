package models

// NoticeKind tells the presentation layer how to show a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Messages shown through the prompt surface.
const (
	MsgConfirmDelete   = "Are you sure you want to delete this product?"
	MsgImportSucceeded = "Products imported successfully!"
	MsgImportFailed    = "Error importing file. Please check the format."
)

// Notice is a blocking acknowledgment shown to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// FormMode distinguishes a create draft from an edit draft.
type FormMode string

const (
	FormClosed FormMode = "closed"
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// DraftState is the editing session as seen by the presentation layer.
type DraftState struct {
	Mode      FormMode   `json:"mode"`
	EditingID ProductID  `json:"editingId,omitempty"`
	Draft     Draft      `json:"draft"`
	Options   []Category `json:"categoryOptions"`
}
