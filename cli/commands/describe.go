package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ro5-service/service/compound"
	"ro5-service/service/descriptor"
)

func newDescribeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe SMILES...",
		Short: "计算结构编码的描述符",
		Long:  `计算一个或多个 SMILES 的精确分子量、LogP、氢键供体数与受体数，并标记是否满足默认五规则。`,
		Example: `  $ ro5ctl describe CCO
  $ ro5ctl describe --json "CC(=O)OC1=CC=CC=C1C(=O)O" c1ccccc1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := descriptor.NewToolkitCalculator()
			out := cmd.OutOrStdout()

			type described struct {
				Smiles   string  `json:"smiles"`
				MW       float64 `json:"MW"`
				LogP     float64 `json:"LogP"`
				HDonors  int     `json:"HDonors"`
				HAccept  int     `json:"HAcceptors"`
				Admitted bool    `json:"admitted"`
			}
			results := make([]described, 0, len(args))
			for _, smiles := range args {
				set, err := descriptor.Compute(calc, smiles)
				if err != nil {
					return err
				}
				results = append(results, described{
					Smiles:   smiles,
					MW:       set.MW,
					LogP:     set.LogP,
					HDonors:  set.HDonors,
					HAccept:  set.HAcceptors,
					Admitted: compound.DefaultThresholds.Admits(set),
				})
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s\tMW=%.4f\tLogP=%.4f\tHDonors=%d\tHAcceptors=%d\tRo5=%t\n",
					r.Smiles, r.MW, r.LogP, r.HDonors, r.HAccept, r.Admitted)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}
