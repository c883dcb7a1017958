package mesh

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/mogaika/meshview/config"
)

const (
	OBJ_TOKEN_COMMENT = iota
	OBJ_TOKEN_NEWLINE
	OBJ_TOKEN_NUMBER
	OBJ_TOKEN_FACEREF
	OBJ_TOKEN_WORD
)

var objLexer *lexmachine.Lexer

func init() {
	// equal length matches resolve to the pattern added first
	objLexer = lexmachine.NewLexer()
	objLexer.Add([]byte(`#[^\n]*`), objToken(OBJ_TOKEN_COMMENT))
	objLexer.Add([]byte("\r?\n"), objToken(OBJ_TOKEN_NEWLINE))
	objLexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+([eE][\+\-]?[0-9]+)?`), objToken(OBJ_TOKEN_NUMBER))
	objLexer.Add([]byte(`-?[0-9]+/-?[0-9]*(/-?[0-9]+)?`), objToken(OBJ_TOKEN_FACEREF))
	objLexer.Add([]byte("[^ \t\r\n]+"), objToken(OBJ_TOKEN_WORD))
	objLexer.Add([]byte("[ \t]+"), objSkip)

	// Scanner compiles lazily and is not safe to do from several decoders
	if err := objLexer.Compile(); err != nil {
		panic(errors.Wrapf(err, "Failed to compile obj lexer"))
	}
}

func objToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func objSkip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type objLine struct {
	line    int
	keyword string
	args    []*lexmachine.Token
}

type objBuilder struct {
	g *Geometry
}

func (b *objBuilder) vertex(l *objLine) error {
	if len(l.args) < 3 {
		return errors.Errorf("Vertex on line %v has %d components", l.line, len(l.args))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(string(l.args[i].Lexeme), 32)
		if err != nil {
			return errors.Errorf("Unknown number format on line %v (%q)", l.line, l.args[i].Lexeme)
		}
		v[i] = float32(f)
	}
	b.g.Positions = append(b.g.Positions, v)
	return nil
}

// face resolves 1-based (or negative, relative) vertex references and
// triangulates the polygon as a fan.
func (b *objBuilder) face(l *objLine) error {
	if len(l.args) < 3 {
		return errors.Errorf("Face on line %v has %d vertices", l.line, len(l.args))
	}
	refs := make([]uint32, len(l.args))
	for i, tok := range l.args {
		if tok.Type != OBJ_TOKEN_NUMBER && tok.Type != OBJ_TOKEN_FACEREF {
			return errors.Errorf("Unexpected face reference on line %v (%q)", l.line, tok.Lexeme)
		}
		ref := string(tok.Lexeme)
		if slash := strings.IndexByte(ref, '/'); slash >= 0 {
			ref = ref[:slash]
		}
		index, err := strconv.Atoi(ref)
		if err != nil {
			return errors.Errorf("Unknown vertex reference on line %v (%q)", l.line, tok.Lexeme)
		}
		count := len(b.g.Positions)
		switch {
		case index > 0 && index <= count:
			refs[i] = uint32(index - 1)
		case index < 0 && -index <= count:
			refs[i] = uint32(count + index)
		default:
			return errors.Errorf("Vertex reference %d out of range on line %v", index, l.line)
		}
	}
	for i := 1; i+1 < len(refs); i++ {
		b.g.Indices = append(b.g.Indices, refs[0], refs[i], refs[i+1])
	}
	return nil
}

func (b *objBuilder) flush(l *objLine) error {
	if l.keyword == "" {
		return nil
	}
	defer func() {
		l.keyword = ""
		l.args = l.args[:0]
	}()

	switch l.keyword {
	case "v":
		return b.vertex(l)
	case "f":
		return b.face(l)
	}
	// normals, uvs, groups and materials do not affect shape
	return nil
}

// DecodeObj reads positions and faces of a Wavefront OBJ file.
func DecodeObj(name string, data []byte) (*Geometry, error) {
	text, err := config.DecodeText(data)
	if err != nil {
		return nil, err
	}

	scanner, err := objLexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	b := &objBuilder{g: &Geometry{}}
	line := &objLine{}

	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)

		switch tok.Type {
		case OBJ_TOKEN_COMMENT:
		case OBJ_TOKEN_NEWLINE:
			if err := b.flush(line); err != nil {
				return nil, err
			}
		default:
			if line.keyword == "" {
				if tok.Type != OBJ_TOKEN_WORD {
					return nil, errors.Errorf("Missed statement keyword on line %v (%q)", tok.StartLine, tok.Lexeme)
				}
				line.keyword = string(tok.Lexeme)
				line.line = tok.StartLine
			} else {
				line.args = append(line.args, tok)
			}
		}
	}
	if err := b.flush(line); err != nil {
		return nil, err
	}

	return b.g, nil
}
