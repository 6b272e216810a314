package eip712

import (
	"encoding/json"
	stderrors "errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wippyai/typeddata/eip712/internal/abi"
	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/keccak"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestNewFieldChecks(t *testing.T) {
	d, _ := newMail(t)
	mail, err := d.Type("Mail")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		msg  func() map[string]any
		kind errors.Kind
		path []string
	}{
		{
			name: "missing top-level field",
			msg: func() map[string]any {
				m := mailMessage()
				delete(m, "contents")
				return m
			},
			kind: errors.KindFieldMissing,
			path: []string{"Mail"},
		},
		{
			name: "missing nested field",
			msg: func() map[string]any {
				m := mailMessage()
				m["to"] = map[string]any{"name": "Bob"}
				return m
			},
			kind: errors.KindFieldMissing,
			path: []string{"Mail", "to"},
		},
		{
			name: "unknown key",
			msg: func() map[string]any {
				m := mailMessage()
				m["cc"] = "nobody"
				return m
			},
			kind: errors.KindFieldUnknown,
			path: []string{"Mail"},
		},
		{
			name: "bad nested value",
			msg: func() map[string]any {
				m := mailMessage()
				m["from"] = map[string]any{"name": "Cow", "wallet": "0x1234"}
				return m
			},
			kind: errors.KindValidation,
			path: []string{"Mail", "from", "wallet"},
		},
		{
			name: "struct given a scalar",
			msg: func() map[string]any {
				m := mailMessage()
				m["to"] = "Bob"
				return m
			},
			kind: errors.KindValidation,
			path: []string{"Mail", "to"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mail.New(tt.msg())
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("New error = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", e.Kind, tt.kind)
			}
			if !stderrors.Is(err, errors.ErrValidation) {
				t.Error("field errors must be validation errors")
			}
			if len(e.Path) != len(tt.path) {
				t.Fatalf("Path = %v, want %v", e.Path, tt.path)
			}
			for i := range tt.path {
				if e.Path[i] != tt.path[i] {
					t.Errorf("Path = %v, want %v", e.Path, tt.path)
				}
			}
		})
	}
}

func TestSetValidatesBeforeCommit(t *testing.T) {
	_, msg := newMail(t)
	before, err := msg.SignHash()
	if err != nil {
		t.Fatal(err)
	}

	if err := msg.Set("contents", 42); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("Set bad value error = %v, want validation", err)
	}
	if err := msg.Set("from", map[string]any{"name": "Cow"}); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("Set incomplete struct error = %v, want validation", err)
	}
	if err := msg.Set("subject", "hi"); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("Set unknown field error = %v, want validation", err)
	}

	after, err := msg.SignHash()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("failed Set changed the instance")
	}
	if v, _ := msg.Get("contents"); v != "Hello, Bob!" {
		t.Errorf("contents = %v", v)
	}

	if err := msg.Set("contents", "Hello again"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	changed, err := msg.SignHash()
	if err != nil {
		t.Fatal(err)
	}
	if changed == before {
		t.Error("successful Set did not change the digest")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	d, err := NewDomain(map[string]any{"name": "Copies"})
	if err != nil {
		t.Fatal(err)
	}
	typ, err := d.RegisterType("Batch", []Field{
		{Name: "ids", Type: "uint8[]"},
		{Name: "n", Type: "uint8"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := typ.New(map[string]any{
		"ids":  []any{1, 2, 3},
		"n":    7,
		"data": "0x0102",
	})
	if err != nil {
		t.Fatal(err)
	}
	before, err := batch.HashStruct()
	if err != nil {
		t.Fatal(err)
	}

	ids, _ := batch.Get("ids")
	ids.([]any)[0] = "garbage"
	n, _ := batch.Get("n")
	n.(*big.Int).SetInt64(100000)
	data, _ := batch.Get("data")
	data.([]byte)[0] = 0xff

	after, err := batch.HashStruct()
	if err != nil {
		t.Fatalf("HashStruct after mutating Get results: %v", err)
	}
	if after != before {
		t.Error("mutating a Get result changed the instance")
	}
	if v, _ := batch.Get("n"); v.(*big.Int).Int64() != 7 {
		t.Errorf("n = %v, want 7", v)
	}
}

func TestGetKeepsNestedInstance(t *testing.T) {
	_, msg := newMail(t)
	from, ok := msg.Get("from")
	if !ok {
		t.Fatal("from missing")
	}
	again, _ := msg.Get("from")
	if from.(*Struct) != again.(*Struct) {
		t.Error("nested struct should be returned by reference")
	}
}

func TestDomainGetReturnsCopy(t *testing.T) {
	d, err := NewDomain(mailDomainProps())
	if err != nil {
		t.Fatal(err)
	}
	sep := d.Separator()

	chainID, _ := d.Get("chainId")
	chainID.(*big.Int).SetInt64(5)

	data, err := d.EncodeData()
	if err != nil {
		t.Fatal(err)
	}
	if keccak.Sum256(data) != sep {
		t.Error("mutating a Get result changed the domain values")
	}
	if _, ok := d.Get("salt"); ok {
		t.Error("absent property reported present")
	}
}

func TestEncodeErrorGoType(t *testing.T) {
	ft, err := ParseFieldType("uint8")
	if err != nil {
		t.Fatal(err)
	}
	encErr := encodeError([]string{"Batch", "n"}, ft, "oops", "expected %d")
	var e *errors.Error
	if !stderrors.As(encErr, &e) {
		t.Fatalf("error = %T, want *errors.Error", encErr)
	}
	if e.GoType != "string" {
		t.Errorf("GoType = %q, want string", e.GoType)
	}
	if e.Detail != "expected %d" {
		t.Errorf("Detail = %q, want the literal text", e.Detail)
	}
}

func TestSetAcceptsInstance(t *testing.T) {
	d, msg := newMail(t)
	person, err := d.Type("Person")
	if err != nil {
		t.Fatal(err)
	}
	alice, err := person.New(map[string]any{"name": "Alice", "wallet": common.HexToAddress("0x01")})
	if err != nil {
		t.Fatal(err)
	}
	if err := msg.Set("to", alice); err != nil {
		t.Fatalf("Set instance: %v", err)
	}
	if v, _ := msg.Get("to"); v != alice {
		t.Error("instance was not stored as given")
	}

	// Same type name in another domain is a different type.
	other, _ := newMail(t)
	otherPerson, _ := other.Type("Person")
	foreign, err := otherPerson.New(map[string]any{"name": "Eve", "wallet": common.Address{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := msg.Set("to", foreign); !stderrors.Is(err, errors.ErrValidation) {
		t.Errorf("Set foreign instance error = %v, want validation", err)
	}
}

func TestToObject(t *testing.T) {
	_, msg := newMail(t)
	obj, err := msg.ToObject()
	if err != nil {
		t.Fatal(err)
	}
	got := mustJSON(t, obj)
	want := `{"contents":"Hello, Bob!",` +
		`"from":{"name":"Cow","wallet":"0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"},` +
		`"to":{"name":"Bob","wallet":"0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"}}`
	if got != want {
		t.Errorf("ToObject = %s, want %s", got, want)
	}
}

func newArrayDomain(t *testing.T) (*Domain, *StructType) {
	t.Helper()
	d, err := NewDomain(map[string]any{"name": "arrays", "chainId": 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.RegisterType("Person", personFields()); err != nil {
		t.Fatal(err)
	}
	group, err := d.RegisterType("Group", []Field{
		{Name: "members", Type: "Person[]"},
		{Name: "scores", Type: "uint256[]"},
		{Name: "labels", Type: "string[2]"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return d, group
}

func TestEmptyArrayHashesEmptyString(t *testing.T) {
	_, group := newArrayDomain(t)
	g, err := group.New(map[string]any{
		"members": []any{},
		"scores":  []int{},
		"labels":  []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := g.EncodeData()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4*32 {
		t.Fatalf("len(EncodeData) = %d, want 128", len(data))
	}
	empty := keccak.Sum256()
	if got := common.BytesToHash(data[32:64]); got != empty {
		t.Errorf("members word = %s, want keccak256(\"\") %s", got.Hex(), empty.Hex())
	}
	if got := common.BytesToHash(data[64:96]); got != empty {
		t.Errorf("scores word = %s, want keccak256(\"\")", got.Hex())
	}
}

func TestArrayElementPacking(t *testing.T) {
	d, group := newArrayDomain(t)
	g, err := group.New(map[string]any{
		"members": []any{
			map[string]any{"name": "Cow", "wallet": cowAddress},
			map[string]any{"name": "Bob", "wallet": bobAddress},
		},
		"scores": []any{1, "0x02", big.NewInt(3)},
		"labels": []any{"x", "y"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := g.EncodeData()
	if err != nil {
		t.Fatal(err)
	}

	person, _ := d.Type("Person")
	var memberHashes []byte
	for _, m := range []map[string]any{
		{"name": "Cow", "wallet": cowAddress},
		{"name": "Bob", "wallet": bobAddress},
	} {
		p, err := person.New(m)
		if err != nil {
			t.Fatal(err)
		}
		h, err := p.HashStruct()
		if err != nil {
			t.Fatal(err)
		}
		memberHashes = append(memberHashes, h[:]...)
	}
	scores, err := abi.Pack([]string{"uint256", "uint256", "uint256"}, []any{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	labels := append(keccak.String("x").Bytes(), keccak.String("y").Bytes()...)

	want := group.TypeHash().Bytes()
	want = append(want, keccak.Sum256(memberHashes).Bytes()...)
	want = append(want, keccak.Sum256(scores).Bytes()...)
	want = append(want, keccak.Sum256(labels).Bytes()...)
	if hexutil.Encode(data) != hexutil.Encode(want) {
		t.Errorf("EncodeData = %x\nwant %x", data, want)
	}
}

func TestFixedArrayLength(t *testing.T) {
	_, group := newArrayDomain(t)
	_, err := group.New(map[string]any{
		"members": []any{},
		"scores":  []any{},
		"labels":  []any{"only one"},
	})
	if !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("New error = %v, want validation", err)
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Type != "string[2]" {
		t.Errorf("Type = %q, want string[2]", e.Type)
	}
}

func TestArrayElementErrorPath(t *testing.T) {
	_, group := newArrayDomain(t)
	_, err := group.New(map[string]any{
		"members": []any{},
		"scores":  []any{1, -1},
		"labels":  []any{"a", "b"},
	})
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("New error = %v", err)
	}
	if len(e.Path) != 2 || e.Path[1] != "scores[1]" {
		t.Errorf("Path = %v, want [Group scores[1]]", e.Path)
	}
}

func TestDomainValidateAndSerialize(t *testing.T) {
	d, _ := newArrayDomain(t)

	tests := []struct {
		typ  string
		raw  any
		want string
	}{
		{"uint256", "0x10", `16`},
		{"address", "0xcd2a3d9f938e13cd947ec05abc7fe734df8dd826", `"` + cowAddress + `"`},
		{"bytes", []byte{0xde, 0xad}, `"0xdead"`},
		{"bool[]", []bool{true, false}, `[true,false]`},
		{"Person", map[string]any{"name": "Bob", "wallet": bobAddress}, `{"name":"Bob","wallet":"` + bobAddress + `"}`},
		{"Person[1]", []any{map[string]any{"name": "Bob", "wallet": bobAddress}}, `[{"name":"Bob","wallet":"` + bobAddress + `"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if _, err := d.Validate(tt.typ, tt.raw); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			v, err := d.Serialize(tt.typ, tt.raw)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if got := mustJSON(t, v); got != tt.want {
				t.Errorf("Serialize = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDomainValidateErrors(t *testing.T) {
	d, _ := newArrayDomain(t)

	tests := []struct {
		typ  string
		raw  any
		want error
	}{
		{"Letter", map[string]any{}, errors.ErrTypeNotFound},
		{"Letter[]", []any{}, errors.ErrTypeNotFound},
		{"uint8", 256, errors.ErrValidation},
		{"uint8[]", "not a list", errors.ErrValidation},
		{"Person", 42, errors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			_, err := d.Validate(tt.typ, tt.raw)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("Validate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodingDeterministic(t *testing.T) {
	var first common.Hash
	for i := 0; i < 5; i++ {
		_, msg := newMail(t)
		h, err := msg.SignHash()
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = h
			continue
		}
		if h != first {
			t.Fatalf("run %d: SignHash = %s, want %s", i, h.Hex(), first.Hex())
		}
	}
}

func TestSignErrors(t *testing.T) {
	_, msg := newMail(t)

	if _, err := msg.Sign(nil); !stderrors.Is(err, errors.ErrSigner) {
		t.Errorf("Sign(nil) error = %v, want signer error", err)
	}

	cause := stderrors.New("device locked")
	_, err := msg.Sign(failingSigner{cause})
	if !stderrors.Is(err, errors.ErrSigner) {
		t.Errorf("Sign error = %v, want signer error", err)
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("Sign error = %v, want cause %v", err, cause)
	}
}

type failingSigner struct{ err error }

func (f failingSigner) Sign(common.Hash) ([]byte, error) { return nil, f.err }

func TestVerifySignatureMalformed(t *testing.T) {
	_, msg := newMail(t)
	if _, err := msg.VerifySignature([]byte{1, 2, 3}, cowAddress, nil); !stderrors.Is(err, errors.ErrValidation) {
		t.Errorf("VerifySignature error = %v, want validation", err)
	}
}
