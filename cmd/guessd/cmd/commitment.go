package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	guesstypes "onchainguess/x/guess/types"
)

const flagVerify = "verify"

func commitmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitment <value> <nonce>",
		Short: "Compute hex(Keccak256(value || nonce)) exactly as the chain does",
		Long: `Compute the commitment for a secret or a guess.

The preimage is the plain concatenation of value and nonce with no separator,
so "ab" + "c" and "a" + "bc" produce the same commitment. Pick nonces that
cannot be confused with the value.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := guesstypes.Commitment(args[0], args[1])
			want, _ := cmd.Flags().GetString(flagVerify)
			if want == "" {
				cmd.Println(c)
				return nil
			}
			norm, err := guesstypes.NormalizeCommitment(want)
			if err != nil {
				return err
			}
			if norm != c {
				return fmt.Errorf("commitment mismatch: computed %s", c)
			}
			cmd.Println("ok")
			return nil
		},
	}
	cmd.Flags().String(flagVerify, "", "check the computed commitment against this hex digest")
	return cmd
}
