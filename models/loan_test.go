package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusNotRedeemed, DeriveStatus(0, 0), "phiếu không có món nào là CHUA_CHUOC")
	assert.Equal(t, StatusNotRedeemed, DeriveStatus(3, 0))
	assert.Equal(t, StatusNotRedeemed, DeriveStatus(3, 2))
	assert.Equal(t, StatusRedeemed, DeriveStatus(3, 3))
	assert.Equal(t, StatusRedeemed, DeriveStatus(1, 1))
}

func TestLoanStatusChuoc(t *testing.T) {
	now := time.Now()
	loan := LoanRecord{}
	assert.Equal(t, StatusNotRedeemed, loan.StatusChuoc())

	loan.Items = []LoanItem{
		{IsRedeemed: true, RedeemedAt: &now},
		{IsRedeemed: false},
	}
	assert.Equal(t, StatusNotRedeemed, loan.StatusChuoc())
	assert.Equal(t, 1, loan.RedeemedCount())

	loan.Items[1].IsRedeemed = true
	loan.Items[1].RedeemedAt = &now
	assert.Equal(t, StatusRedeemed, loan.StatusChuoc())
	assert.Equal(t, 2, loan.RedeemedCount())
}
