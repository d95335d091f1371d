// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mssmt

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockTreeStore is a hand-maintained stand-in for what `mockgen -source
// store.go -destination mock_treestore_test.go` would generate for
// TreeStore. Kept by hand since the package deliberately has no go:generate
// dependency on the mockgen binary.
type MockTreeStore struct {
	ctrl     *gomock.Controller
	recorder *MockTreeStoreMockRecorder
}

// MockTreeStoreMockRecorder records expected calls on a MockTreeStore.
type MockTreeStoreMockRecorder struct {
	mock *MockTreeStore
}

// NewMockTreeStore returns a new mock bound to ctrl.
func NewMockTreeStore(ctrl *gomock.Controller) *MockTreeStore {
	m := &MockTreeStore{ctrl: ctrl}
	m.recorder = &MockTreeStoreMockRecorder{mock: m}
	return m
}

// EXPECT returns the recorder used to set up expected calls.
func (m *MockTreeStore) EXPECT() *MockTreeStoreMockRecorder {
	return m.recorder
}

func (m *MockTreeStore) InsertLeaf(leaf *Leaf) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertLeaf", leaf)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTreeStoreMockRecorder) InsertLeaf(leaf interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertLeaf", reflect.TypeOf((*MockTreeStore)(nil).InsertLeaf), leaf)
}

func (m *MockTreeStore) InsertBranch(branch *DiskBranch) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertBranch", branch)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTreeStoreMockRecorder) InsertBranch(branch interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertBranch", reflect.TypeOf((*MockTreeStore)(nil).InsertBranch), branch)
}

func (m *MockTreeStore) DeleteLeaf(hash NodeHash) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteLeaf", hash)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTreeStoreMockRecorder) DeleteLeaf(hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteLeaf", reflect.TypeOf((*MockTreeStore)(nil).DeleteLeaf), hash)
}

func (m *MockTreeStore) DeleteBranch(hash NodeHash) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteBranch", hash)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTreeStoreMockRecorder) DeleteBranch(hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteBranch", reflect.TypeOf((*MockTreeStore)(nil).DeleteBranch), hash)
}

func (m *MockTreeStore) FetchLeaf(hash NodeHash) (*Leaf, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchLeaf", hash)
	leaf, _ := ret[0].(*Leaf)
	ok, _ := ret[1].(bool)
	err, _ := ret[2].(error)
	return leaf, ok, err
}

func (mr *MockTreeStoreMockRecorder) FetchLeaf(hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchLeaf", reflect.TypeOf((*MockTreeStore)(nil).FetchLeaf), hash)
}

func (m *MockTreeStore) FetchBranch(hash NodeHash) (*DiskBranch, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchBranch", hash)
	branch, _ := ret[0].(*DiskBranch)
	ok, _ := ret[1].(bool)
	err, _ := ret[2].(error)
	return branch, ok, err
}

func (mr *MockTreeStoreMockRecorder) FetchBranch(hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchBranch", reflect.TypeOf((*MockTreeStore)(nil).FetchBranch), hash)
}

var _ TreeStore = (*MockTreeStore)(nil)
