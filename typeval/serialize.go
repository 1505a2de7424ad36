// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeval

// wireType is the flat, JSON-friendly shape used to round-trip a Type
// across process boundaries (e.g. a debug introspection snapshot). It
// mirrors the tagged-variant shape of Type itself rather than introducing a
// second representation to keep in sync.
type wireType struct {
	Kind   Kind        `json:"kind"`
	Name   string      `json:"name,omitempty"`
	Elem   *wireType   `json:"elem,omitempty"`
	Key    *wireType   `json:"key,omitempty"`
	Value  *wireType   `json:"value,omitempty"`
	Tuple  []wireType  `json:"tuple,omitempty"`
	Fields []wireField `json:"fields,omitempty"`
	Union  []wireType  `json:"union,omitempty"`
	Params []wireParam `json:"params,omitempty"`
	Return *wireType   `json:"return,omitempty"`
	Args   []wireArg   `json:"args,omitempty"`
}

type wireArg struct {
	Name string   `json:"name"`
	Type wireType `json:"type"`
}

type wireField struct {
	Key  string   `json:"key"`
	Type wireType `json:"type"`
}

type wireParam struct {
	Name string   `json:"name"`
	Kind ParamKind `json:"kind"`
	Type wireType `json:"type"`
}

// toWire converts a Type into its flat wire form.
func toWire(t Type) wireType {
	w := wireType{Kind: t.kind, Name: t.name}
	if t.elem != nil {
		e := toWire(*t.elem)
		w.Elem = &e
	}
	if t.key != nil {
		k := toWire(*t.key)
		w.Key = &k
	}
	if t.value != nil {
		v := toWire(*t.value)
		w.Value = &v
	}
	for _, e := range t.tuple {
		w.Tuple = append(w.Tuple, toWire(e))
	}
	for _, f := range t.fields {
		w.Fields = append(w.Fields, wireField{Key: f.Key, Type: toWire(f.Type)})
	}
	for _, m := range t.union {
		w.Union = append(w.Union, toWire(m))
	}
	for _, p := range t.sigParams {
		w.Params = append(w.Params, wireParam{Name: p.Name, Kind: p.Kind, Type: toWire(p.Type)})
	}
	if t.sigReturn != nil {
		r := toWire(*t.sigReturn)
		w.Return = &r
	}
	for _, a := range t.typeArgs {
		w.Args = append(w.Args, wireArg{Name: a.Name, Type: toWire(a.Type)})
	}
	return w
}

// fromWire reconstructs a Type from its flat wire form.
func fromWire(w wireType) Type {
	t := Type{kind: w.Kind, name: w.Name}
	if w.Elem != nil {
		e := fromWire(*w.Elem)
		t.elem = &e
	}
	if w.Key != nil {
		k := fromWire(*w.Key)
		t.key = &k
	}
	if w.Value != nil {
		v := fromWire(*w.Value)
		t.value = &v
	}
	for _, e := range w.Tuple {
		t.tuple = append(t.tuple, fromWire(e))
	}
	for _, f := range w.Fields {
		t.fields = append(t.fields, HashField{Key: f.Key, Type: fromWire(f.Type)})
	}
	for _, m := range w.Union {
		t.union = append(t.union, fromWire(m))
	}
	for _, p := range w.Params {
		t.sigParams = append(t.sigParams, Param{Name: p.Name, Kind: p.Kind, Type: fromWire(p.Type)})
	}
	if w.Return != nil {
		r := fromWire(*w.Return)
		t.sigReturn = &r
	}
	for _, a := range w.Args {
		t.typeArgs = append(t.typeArgs, TypeArg{Name: a.Name, Type: fromWire(a.Type)})
	}
	return t
}

// Marshal and Unmarshal are exported so an embedder (e.g. a debug
// introspection snapshot) can serialize a Type without reaching into its
// unexported fields; they also back the round-trip test in §8.
type Marshaled = wireType

// Marshal converts t to its serializable wire form.
func Marshal(t Type) Marshaled { return toWire(t) }

// Unmarshal reconstructs a Type from a wire form produced by Marshal.
func Unmarshal(m Marshaled) Type { return fromWire(m) }
