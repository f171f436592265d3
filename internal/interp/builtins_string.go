package interp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/molt-lang/molt/internal/value"
)

func registerStringBuiltins(in *Interpreter) {
	in.AddCommand("string", cmdString)
}

// cmdString implements the `string` command family (spec.md §4.2, §8
// supplemental): length, index, range, compare, equal, match, toupper,
// tolower, totitle, trim/trimleft/trimright, repeat, replace, first, last,
// map, cat, tolower/toupper are locale-aware via golang.org/x/text/cases.
func cmdString(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("string option arg ?arg ...?")
	}
	option := args[1].String()
	rest := args[2:]
	switch option {
	case "length":
		if len(rest) != 1 {
			return wrongArgs("string length string")
		}
		return Ok(value.FromInt(int64(len([]rune(rest[0].String())))))
	case "index":
		if len(rest) != 2 {
			return wrongArgs("string index string charIndex")
		}
		runes := []rune(rest[0].String())
		idx, ok := resolveIndex(rest[1].String(), len(runes))
		if !ok || idx < 0 || idx >= len(runes) {
			return Ok(value.Empty)
		}
		return Ok(value.FromString(string(runes[idx])))
	case "range":
		if len(rest) != 3 {
			return wrongArgs("string range string first last")
		}
		runes := []rune(rest[0].String())
		first, ok1 := resolveIndex(rest[1].String(), len(runes))
		last, ok2 := resolveIndex(rest[2].String(), len(runes))
		if !ok1 || !ok2 {
			return Errorf("bad index")
		}
		if first < 0 {
			first = 0
		}
		if last >= len(runes) {
			last = len(runes) - 1
		}
		if first > last {
			return Ok(value.Empty)
		}
		return Ok(value.FromString(string(runes[first : last+1])))
	case "compare":
		if len(rest) != 2 {
			return wrongArgs("string compare string1 string2")
		}
		return Ok(value.FromInt(int64(strings.Compare(rest[0].String(), rest[1].String()))))
	case "equal":
		if len(rest) != 2 {
			return wrongArgs("string equal string1 string2")
		}
		return Ok(value.FromBool(rest[0].String() == rest[1].String()))
	case "match":
		if len(rest) != 2 {
			return wrongArgs("string match pattern string")
		}
		ok, err := globMatch(rest[0].String(), rest[1].String())
		if err != nil {
			return Errorf("bad pattern %q", rest[0].String())
		}
		return Ok(value.FromBool(ok))
	case "tolower":
		if len(rest) != 1 {
			return wrongArgs("string tolower string")
		}
		return Ok(value.FromString(cases.Lower(language.Und).String(rest[0].String())))
	case "toupper":
		if len(rest) != 1 {
			return wrongArgs("string toupper string")
		}
		return Ok(value.FromString(cases.Upper(language.Und).String(rest[0].String())))
	case "totitle":
		if len(rest) != 1 {
			return wrongArgs("string totitle string")
		}
		return Ok(value.FromString(cases.Title(language.Und).String(rest[0].String())))
	case "trim":
		if len(rest) < 1 || len(rest) > 2 {
			return wrongArgs("string trim string ?chars?")
		}
		cutset := " \t\n\r"
		if len(rest) == 2 {
			cutset = rest[1].String()
		}
		return Ok(value.FromString(strings.Trim(rest[0].String(), cutset)))
	case "trimleft":
		if len(rest) < 1 || len(rest) > 2 {
			return wrongArgs("string trimleft string ?chars?")
		}
		cutset := " \t\n\r"
		if len(rest) == 2 {
			cutset = rest[1].String()
		}
		return Ok(value.FromString(strings.TrimLeft(rest[0].String(), cutset)))
	case "trimright":
		if len(rest) < 1 || len(rest) > 2 {
			return wrongArgs("string trimright string ?chars?")
		}
		cutset := " \t\n\r"
		if len(rest) == 2 {
			cutset = rest[1].String()
		}
		return Ok(value.FromString(strings.TrimRight(rest[0].String(), cutset)))
	case "repeat":
		if len(rest) != 2 {
			return wrongArgs("string repeat string count")
		}
		n, err := rest[1].AsInt()
		if err != nil || n < 0 {
			return Errorf("expected non-negative integer but got %q", rest[1].String())
		}
		return Ok(value.FromString(strings.Repeat(rest[0].String(), int(n))))
	case "replace":
		if len(rest) < 3 || len(rest) > 4 {
			return wrongArgs("string replace string first last ?newString?")
		}
		runes := []rune(rest[0].String())
		first, ok1 := resolveIndex(rest[1].String(), len(runes))
		last, ok2 := resolveIndex(rest[2].String(), len(runes))
		if !ok1 || !ok2 {
			return Errorf("bad index")
		}
		if first < 0 {
			first = 0
		}
		if last >= len(runes) {
			last = len(runes) - 1
		}
		if first > last {
			return Ok(value.FromString(string(runes)))
		}
		repl := ""
		if len(rest) == 4 {
			repl = rest[3].String()
		}
		out := string(runes[:first]) + repl + string(runes[last+1:])
		return Ok(value.FromString(out))
	case "first":
		if len(rest) < 2 || len(rest) > 3 {
			return wrongArgs("string first needleString haystackString ?startIndex?")
		}
		hay := rest[1].String()
		start := 0
		if len(rest) == 3 {
			if s, ok := resolveIndex(rest[2].String(), len([]rune(hay))); ok {
				start = s
			}
		}
		idx := indexFromRune(hay, rest[0].String(), start)
		return Ok(value.FromInt(int64(idx)))
	case "last":
		if len(rest) != 2 {
			return wrongArgs("string last needleString haystackString")
		}
		hay := []rune(rest[1].String())
		needle := rest[0].String()
		idx := strings.LastIndex(string(hay), needle)
		if idx < 0 {
			return Ok(value.FromInt(-1))
		}
		return Ok(value.FromInt(int64(len([]rune(string(hay)[:idx])))))
	case "map":
		if len(rest) != 2 {
			return wrongArgs("string map mapping string")
		}
		pairs, err := rest[0].AsList()
		if err != nil || len(pairs)%2 != 0 {
			return Errorf("char map list unbalanced")
		}
		oldnew := make([]string, 0, len(pairs))
		for _, p := range pairs {
			oldnew = append(oldnew, p.String())
		}
		r := strings.NewReplacer(oldnew...)
		return Ok(value.FromString(r.Replace(rest[1].String())))
	case "cat":
		var sb strings.Builder
		for _, r := range rest {
			sb.WriteString(r.String())
		}
		return Ok(value.FromString(sb.String()))
	case "reverse":
		if len(rest) != 1 {
			return wrongArgs("string reverse string")
		}
		runes := []rune(rest[0].String())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return Ok(value.FromString(string(runes)))
	case "is":
		if len(rest) != 2 {
			return wrongArgs("string is class string")
		}
		return Ok(value.FromBool(stringIsClass(rest[0].String(), rest[1].String())))
	default:
		return Errorf(`unknown or ambiguous subcommand %q`, option)
	}
}

func indexFromRune(hay, needle string, startRune int) int {
	runes := []rune(hay)
	if startRune < 0 {
		startRune = 0
	}
	if startRune > len(runes) {
		return -1
	}
	sub := string(runes[startRune:])
	idx := strings.Index(sub, needle)
	if idx < 0 {
		return -1
	}
	return startRune + len([]rune(sub[:idx]))
}

func stringIsClass(class, s string) bool {
	if s == "" {
		return true
	}
	switch class {
	case "integer":
		_, err := value.FromString(s).AsInt()
		return err == nil
	case "double":
		_, err := value.FromString(s).AsFloat()
		return err == nil
	case "alpha":
		for _, r := range s {
			if !isLetter(r) {
				return false
			}
		}
		return true
	case "alnum":
		for _, r := range s {
			if !isLetter(r) && !(r >= '0' && r <= '9') {
				return false
			}
		}
		return true
	case "digit":
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	case "space":
		return strings.TrimSpace(s) == ""
	case "upper":
		return s == cases.Upper(language.Und).String(s)
	case "lower":
		return s == cases.Lower(language.Und).String(s)
	default:
		return false
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
