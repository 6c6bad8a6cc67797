package api

import (
	gomock "github.com/golang/mock/gomock"
	http "net/http"
)

// MockDoer is a hand-written gomock mock of Doer.
type MockDoer struct {
	ctrl     *gomock.Controller
	recorder *_MockDoerRecorder
}

// Recorder for MockDoer (not exported)
type _MockDoerRecorder struct {
	mock *MockDoer
}

func NewMockDoer(ctrl *gomock.Controller) *MockDoer {
	mock := &MockDoer{ctrl: ctrl}
	mock.recorder = &_MockDoerRecorder{mock}
	return mock
}

func (_m *MockDoer) EXPECT() *_MockDoerRecorder {
	return _m.recorder
}

func (_m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	ret := _m.ctrl.Call(_m, "Do", req)
	ret0, _ := ret[0].(*http.Response)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (_mr *_MockDoerRecorder) Do(arg0 interface{}) *gomock.Call {
	return _mr.mock.ctrl.RecordCall(_mr.mock, "Do", arg0)
}
