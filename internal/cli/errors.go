package cli

import (
	"errors"

	"github.com/mesh-intelligence/haras/internal/share"
	"github.com/mesh-intelligence/haras/pkg/types"
)

// User-facing messages.
const (
	msgStorage       = "Erro ao acessar o armazenamento do dispositivo."
	msgInvalidJSON   = "Erro ao ler o arquivo. Verifique se é um JSON válido."
	msgInvalidSchema = "Arquivo de importação inválido."
	msgNotFound      = "Cavalo não encontrado."
	msgFileNotFound  = "Arquivo não encontrado."
	msgInvalidFile   = "Nome de arquivo inválido."
	msgInvalidName   = "O nome é obrigatório."
	msgInvalidDate   = "Data inválida. Use o formato AAAA-MM-DD."
	msgInvalidGender = "Sexo inválido. Use Macho ou Fêmea."
	msgNotFemale     = "Apenas éguas possuem histórico de acasalamento."
	msgInvalidMale   = "O macho selecionado é inválido."
	msgInvalidID     = "ID inválido."
)

// exitError carries the message shown to the user and the exit code.
// The wrapped error is only logged.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func userError(msg string, err error) error {
	return &exitError{code: exitUserError, msg: msg, err: err}
}

func sysError(msg string, err error) error {
	return &exitError{code: exitSysError, msg: msg, err: err}
}

// describe maps err to an exit code and a user-facing message.
func describe(err error) (int, string) {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code, ee.msg
	}

	switch {
	case errors.Is(err, types.ErrInvalidJSON):
		return exitUserError, msgInvalidJSON
	case errors.Is(err, types.ErrInvalidSchema):
		return exitUserError, msgInvalidSchema
	case errors.Is(err, types.ErrNotFound):
		return exitUserError, msgNotFound
	case errors.Is(err, share.ErrNotFound):
		return exitUserError, msgFileNotFound
	case errors.Is(err, share.ErrInvalidName):
		return exitUserError, msgInvalidFile
	case errors.Is(err, types.ErrInvalidName):
		return exitUserError, msgInvalidName
	case errors.Is(err, types.ErrInvalidDate):
		return exitUserError, msgInvalidDate
	case errors.Is(err, types.ErrInvalidGender):
		return exitUserError, msgInvalidGender
	case errors.Is(err, types.ErrNotFemale):
		return exitUserError, msgNotFemale
	case errors.Is(err, types.ErrInvalidMale):
		return exitUserError, msgInvalidMale
	case errors.Is(err, types.ErrInvalidID):
		return exitUserError, msgInvalidID
	}

	switch types.Category(err) {
	case types.CategoryStorage:
		return exitSysError, msgStorage
	case types.CategoryFormat:
		return exitUserError, msgInvalidSchema
	}
	// Usage errors from cobra: unknown command, bad flag, wrong arg count.
	return exitUserError, err.Error()
}
