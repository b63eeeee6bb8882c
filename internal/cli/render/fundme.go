package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// FundMeRenderer renders FundMe state and transactions
type FundMeRenderer struct {
	out io.Writer
}

// NewFundMeRenderer creates a new FundMe renderer
func NewFundMeRenderer(out io.Writer) *FundMeRenderer {
	return &FundMeRenderer{out: out}
}

// RenderStatus renders a FundMe snapshot
func (r *FundMeRenderer) RenderStatus(status *usecase.FundMeStatus) error {
	headerStyle.Fprintf(r.out, "FundMe on %s\n", status.Network)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Address:   "), addressStyle.Sprint(status.Address.Hex()))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Owner:     "), status.Owner.Hex())
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Price feed:"), status.PriceFeed.Hex())
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Balance:   "), contractStyle.Sprint(FormatEther(status.Balance)))

	if len(status.Funders) == 0 {
		fmt.Fprintf(r.out, "\n  %s\n", skippedStyle.Sprint("No funders"))
		return nil
	}
	fmt.Fprintf(r.out, "\n  Funders (%d):\n", len(status.Funders))
	for i, funder := range status.Funders {
		fmt.Fprintf(r.out, "    [%d] %s  %s\n", i, funder.Address.Hex(), FormatEther(funder.Amount))
	}
	return nil
}

// RenderTx renders a mined FundMe transaction
func (r *FundMeRenderer) RenderTx(action string, result *usecase.TxResult) error {
	if result.Receipt != nil && result.Receipt.Status == types.ReceiptStatusSuccessful {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s succeeded", action)))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s failed", action)))
	}
	fmt.Fprintf(r.out, "  From: %s\n", result.From.Hex())
	if result.Receipt != nil {
		fmt.Fprintf(r.out, "  Tx: %s\n", result.Receipt.TxHash.Hex())
		if result.Receipt.BlockNumber != nil {
			fmt.Fprintf(r.out, "  Block: %d\n", result.Receipt.BlockNumber.Uint64())
		}
		fmt.Fprintf(r.out, "  Gas used: %s\n", FormatGas(result.Receipt.GasUsed))
	}
	fmt.Fprintf(r.out, "  Contract balance: %s\n", color.New(color.Bold).Sprint(FormatEther(result.Balance)))
	return nil
}
